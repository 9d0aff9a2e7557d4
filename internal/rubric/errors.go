package rubric

import (
	"fmt"

	"neuronexus/pkg/types"
)

// InvalidRubricError rejects a rubric at registry construction.
type InvalidRubricError struct {
	Exam   types.ExamType
	Reason string
}

func (e *InvalidRubricError) Error() string {
	return fmt.Sprintf("invalid rubric %s: %s", e.Exam, e.Reason)
}
