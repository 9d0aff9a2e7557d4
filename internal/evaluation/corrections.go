package evaluation

import (
	"strings"

	"neuronexus/pkg/types"
)

// ConclusiveConnectives are the connectives whose absence triggers the
// cohesion correction.
var ConclusiveConnectives = []string{"portanto", "assim", "dessa forma"}

const cohesionCriterion = "C4"

// Corrections returns advisory corrections for content. The result is never
// nil.
func Corrections(content string) []types.Correction {
	out := []types.Correction{}
	lower := strings.ToLower(content)
	for _, c := range ConclusiveConnectives {
		if strings.Contains(lower, c) {
			return out
		}
	}
	return append(out, types.Correction{
		Position:        0,
		OriginalText:    "[Início do texto]",
		SuggestedText:   "Considere usar conectivos conclusivos como 'portanto', 'assim' ou 'dessa forma'",
		Reason:          "Conectivos ajudam na articulação de ideias",
		RubricCriterion: cohesionCriterion,
	})
}
