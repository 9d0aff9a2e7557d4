// Package evaluation grades essays against the registered rubrics using a
// competency scorer.
package evaluation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"neuronexus/internal/rubric"
	"neuronexus/pkg/types"
)

// Scorer produces ordered competency scores. *manager.Manager satisfies it.
type Scorer interface {
	ScoreEssay(ctx context.Context, theme, content string) ([]int, error)
}

// ServiceConfig holds optional Service dependencies.
type ServiceConfig struct {
	Logger *zerolog.Logger
	Clock  func() time.Time
}

// Service is the evaluation orchestrator.
type Service struct {
	rubrics *rubric.Registry
	scorer  Scorer
	log     zerolog.Logger
	clock   func() time.Time
}

// NewService builds a Service with default logger and clock.
func NewService(rubrics *rubric.Registry, scorer Scorer) *Service {
	return NewServiceWithConfig(rubrics, scorer, ServiceConfig{})
}

// NewServiceWithConfig builds a Service, filling unset fields with defaults.
func NewServiceWithConfig(rubrics *rubric.Registry, scorer Scorer, cfg ServiceConfig) *Service {
	s := &Service{rubrics: rubrics, scorer: scorer, clock: cfg.Clock, log: zerolog.Nop()}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Rubrics exposes the registry the service grades against.
func (s *Service) Rubrics() *rubric.Registry { return s.rubrics }

// EvaluateEssay grades essay and returns a graded copy. On error the
// returned essay is the input unchanged.
func (s *Service) EvaluateEssay(ctx context.Context, essay types.Essay) (types.Essay, error) {
	rb, ok := s.rubrics.Get(essay.ExamType)
	if !ok {
		return essay, &EvaluationError{Op: OpRubric, Exam: essay.ExamType, Err: ErrRubricMissing}
	}

	scores, err := s.scorer.ScoreEssay(ctx, essay.Title, essay.Content)
	if err != nil {
		s.log.Warn().Str("event", "evaluate_failed").Str("exam", string(essay.ExamType)).Err(err).Msg("")
		return essay, &EvaluationError{Op: OpScore, Exam: essay.ExamType, Err: err}
	}

	rs := types.RubricScores{
		Scores:           make(map[string]int, len(rb.Criteria)),
		DetailedFeedback: make(map[string]string, len(rb.Criteria)),
	}
	total := 0
	for i, c := range rb.Criteria {
		score := 0
		if i < len(scores) {
			score = scores[i]
		}
		total += score
		rs.Scores[c.Name] = score
		rs.DetailedFeedback[c.Name] = CriterionFeedback(rb.ExamType, c.Name, score)
	}
	feedback := OverallFeedback(rb.ExamType, total, scores)

	out := essay
	out.Score = &total
	out.MaxScore = rb.MaxScore
	out.RubricScores = &rs
	out.Corrections = Corrections(essay.Content)
	out.Feedback = &feedback
	out.Status = types.EssayGraded
	out.UpdatedAt = s.clock()

	s.log.Info().Str("event", "evaluated").Str("essay", essay.ID.String()).
		Str("exam", string(essay.ExamType)).Int("score", total).Int("max_score", rb.MaxScore).Msg("")
	return out, nil
}
