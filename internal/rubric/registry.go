// Package rubric holds the per-exam grading rubrics. A Registry is built once,
// validated, and read-only afterwards.
package rubric

import (
	"fmt"
	"math"
	"sort"

	"neuronexus/pkg/types"
)

// Registry maps exam types to rubrics. Safe for concurrent reads.
type Registry struct {
	rubrics map[types.ExamType]types.Rubric
}

// NewRegistry validates and registers rubrics. A later rubric for the same
// exam replaces an earlier one.
func NewRegistry(rubrics ...types.Rubric) (*Registry, error) {
	r := &Registry{rubrics: make(map[types.ExamType]types.Rubric, len(rubrics))}
	for _, rb := range rubrics {
		if err := Validate(rb); err != nil {
			return nil, err
		}
		r.rubrics[rb.ExamType] = clone(rb)
	}
	return r, nil
}

// Default returns the built-in ENEM, FUVEST and UNESP rubrics.
func Default() *Registry {
	r, err := NewRegistry(Defaults()...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithDefaults registers the built-in rubrics followed by extra, so extra
// rubrics override built-in ones for the same exam.
func WithDefaults(extra ...types.Rubric) (*Registry, error) {
	return NewRegistry(append(Defaults(), extra...)...)
}

// Get returns a copy of the exam's rubric. Unknown exams yield false.
func (r *Registry) Get(exam types.ExamType) (types.Rubric, bool) {
	rb, ok := r.rubrics[exam]
	if !ok {
		return types.Rubric{}, false
	}
	return clone(rb), true
}

// ExamTypes lists registered exams in lexical order.
func (r *Registry) ExamTypes() []types.ExamType {
	out := make([]types.ExamType, 0, len(r.rubrics))
	for k := range r.rubrics {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All returns copies of every rubric ordered by exam type.
func (r *Registry) All() []types.Rubric {
	exams := r.ExamTypes()
	out := make([]types.Rubric, 0, len(exams))
	for _, e := range exams {
		out = append(out, clone(r.rubrics[e]))
	}
	return out
}

// Validate checks that criteria are named uniquely, weights lie in [0,1],
// weights add up to 1 (within 0.02) and criterion maxima add up to the
// rubric maximum.
func Validate(rb types.Rubric) error {
	bad := func(format string, args ...any) error {
		return &InvalidRubricError{Exam: rb.ExamType, Reason: fmt.Sprintf(format, args...)}
	}
	if rb.ExamType == "" {
		return bad("missing exam type")
	}
	if rb.MaxScore <= 0 {
		return bad("max_score must be positive")
	}
	if len(rb.Criteria) == 0 {
		return bad("no criteria")
	}
	seen := make(map[string]bool, len(rb.Criteria))
	sum := 0
	var weights float64
	for i, c := range rb.Criteria {
		if c.Name == "" {
			return bad("criterion %d has no name", i)
		}
		if seen[c.Name] {
			return bad("duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight < 0 || c.Weight > 1 {
			return bad("criterion %q weight %.2f outside [0,1]", c.Name, c.Weight)
		}
		if c.MaxScore <= 0 {
			return bad("criterion %q max_score must be positive", c.Name)
		}
		sum += c.MaxScore
		weights += c.Weight
	}
	if sum != rb.MaxScore {
		return bad("criteria max_score sum %d != rubric max_score %d", sum, rb.MaxScore)
	}
	if math.Abs(weights-1) > 0.02 {
		return bad("criterion weights sum to %.2f", weights)
	}
	return nil
}

func clone(rb types.Rubric) types.Rubric {
	out := rb
	out.Criteria = make([]types.Criterion, len(rb.Criteria))
	for i, c := range rb.Criteria {
		c.EvaluationPoints = append([]string(nil), c.EvaluationPoints...)
		out.Criteria[i] = c
	}
	return out
}
