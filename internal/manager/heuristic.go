package manager

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NumCompetencies is the number of scores ScoreEssay returns.
const NumCompetencies = 5

// Score levels used by the heuristic.
const (
	scoreWeak   = 80
	scoreFair   = 120
	scoreStrong = 160
)

var proposalWords = []string{"proposta", "solução", "necessário"}

// TextStats are the structural counts the heuristic scores from.
type TextStats struct {
	Words      int
	Sentences  int // segments split on '.', '!' and '?', empty ones included
	Paragraphs int // segments split on blank lines, empty ones included
}

// WordsPerSentence is the integer mean; 0 when there are no sentences.
func (s TextStats) WordsPerSentence() int {
	if s.Sentences == 0 {
		return 0
	}
	return s.Words / s.Sentences
}

// Analyze counts words, sentences and paragraphs.
func Analyze(content string) TextStats {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return TextStats{
		Words:      len(strings.Fields(content)),
		Sentences:  1 + strings.Count(content, ".") + strings.Count(content, "!") + strings.Count(content, "?"),
		Paragraphs: len(strings.Split(content, "\n\n")),
	}
}

// HeuristicScores maps the essay body to the five competency scores. It is
// pure: the same text always yields the same scores.
func HeuristicScores(content string) [NumCompetencies]int {
	st := Analyze(content)
	var out [NumCompetencies]int

	switch {
	case st.Words >= 250 && st.Words < 350:
		out[0] = scoreStrong
	case st.Words >= 200:
		out[0] = scoreFair
	default:
		out[0] = scoreWeak
	}

	switch {
	case st.Paragraphs >= 4:
		out[1] = scoreStrong
	case st.Paragraphs >= 3:
		out[1] = scoreFair
	default:
		out[1] = scoreWeak
	}

	out[2] = scoreFair
	if st.Sentences >= 15 && st.Words > 250 {
		out[2] = scoreStrong
	}

	out[3] = scoreFair
	if wps := st.WordsPerSentence(); wps >= 15 && wps <= 25 {
		out[3] = scoreStrong
	}

	out[4] = scoreWeak
	if hasProposal(content) {
		out[4] = scoreStrong
	}
	return out
}

func hasProposal(content string) bool {
	lower := strings.ToLower(norm.NFC.String(content))
	for _, w := range proposalWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
