package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"neuronexus/internal/manager"
	"neuronexus/internal/status"
	"neuronexus/pkg/types"
)

// Evaluate builds a submitted essay from req and grades it. The model is
// loaded lazily if needed.
func (a *App) Evaluate(ctx context.Context, req types.EvaluateRequest) (types.Essay, error) {
	userID := uuid.Nil
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return types.Essay{}, ErrInvalidUserID
		}
		userID = id
	}
	now := a.clock()
	essay := types.NewEssay(userID, req.Title, req.Content, req.ExamType, now)
	essay.Status = types.EssaySubmitted
	essay.SubmittedAt = &now

	graded, err := a.eval.EvaluateEssay(ctx, essay)
	var ie *manager.InitError
	switch {
	case errors.As(err, &ie):
		a.tracker.Fail(ie.Error())
	case a.mgr.IsInitialized():
		_ = a.tracker.Fire(context.Background(), status.EventReady)
	}
	return graded, err
}
