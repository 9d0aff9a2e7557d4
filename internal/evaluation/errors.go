package evaluation

import (
	"errors"
	"fmt"

	"neuronexus/pkg/types"
)

// ErrRubricMissing is returned when no rubric is registered for the essay's
// exam type.
var ErrRubricMissing = errors.New("no rubric registered for exam type")

// Operation names carried by EvaluationError.
const (
	OpRubric = "rubric"
	OpScore  = "score"
)

// EvaluationError wraps a failed evaluation step.
type EvaluationError struct {
	Op   string
	Exam types.ExamType
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s: %s: %v", e.Exam, e.Op, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// IsRubricMissing reports whether err stems from an unregistered exam type.
func IsRubricMissing(err error) bool { return errors.Is(err, ErrRubricMissing) }

// IsScoreFailure reports whether err came from the scorer.
func IsScoreFailure(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee) && ee.Op == OpScore
}
