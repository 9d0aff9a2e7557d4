package manager

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("palavra ", n))
}

func TestAnalyze(t *testing.T) {
	st := Analyze("Primeira frase. Segunda frase!\n\nTerceira? \n\n  \n\nFim")
	if st.Words != 6 || st.Sentences != 4 || st.Paragraphs != 4 {
		t.Fatalf("stats = %+v", st)
	}
	if st.WordsPerSentence() != 1 {
		t.Fatalf("wps = %d", st.WordsPerSentence())
	}
	if (TextStats{}).WordsPerSentence() != 0 {
		t.Fatalf("zero sentences must give 0")
	}
}

func TestAnalyze_CountsTrailingEmptySegments(t *testing.T) {
	st := Analyze("")
	if st.Sentences != 1 || st.Paragraphs != 1 {
		t.Fatalf("empty text stats = %+v", st)
	}
	st = Analyze("Fim.\n\n")
	if st.Sentences != 2 || st.Paragraphs != 2 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestHeuristicScores_SingleSentenceWithFinalPeriod(t *testing.T) {
	text := words(20) + "."
	st := Analyze(text)
	if st.Words != 20 || st.Sentences != 2 || st.WordsPerSentence() != 10 {
		t.Fatalf("stats = %+v wps=%d", st, st.WordsPerSentence())
	}
	want := [NumCompetencies]int{80, 80, 120, 120, 80}
	if got := HeuristicScores(text); got != want {
		t.Fatalf("scores = %v want %v", got, want)
	}
}

func TestHeuristicScores_WordCountBands(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 80}, {199, 80}, {200, 120}, {249, 120}, {250, 160}, {349, 160}, {350, 120}, {1000, 120},
	}
	for _, c := range cases {
		if got := HeuristicScores(words(c.n))[0]; got != c.want {
			t.Fatalf("words=%d: C1=%d want %d", c.n, got, c.want)
		}
	}
}

func TestHeuristicScores_Paragraphs(t *testing.T) {
	for n, want := range map[int]int{1: 80, 2: 80, 3: 120, 4: 160, 7: 160} {
		text := strings.TrimSuffix(strings.Repeat("Um parágrafo.\n\n", n), "\n\n")
		if got := HeuristicScores(text)[1]; got != want {
			t.Fatalf("paragraphs=%d: C2=%d want %d", n, got, want)
		}
	}
}

func TestHeuristicScores_SentencesAndCohesion(t *testing.T) {
	// 15 periods give 16 sentences: 300 words, mean 18
	text := strings.Repeat(words(20)+". ", 15)
	s := HeuristicScores(text)
	if s[2] != 160 || s[3] != 160 {
		t.Fatalf("C3/C4 = %d/%d", s[2], s[3])
	}
	// 14 sentences is not enough for C3
	s = HeuristicScores(strings.Repeat(words(20)+". ", 13))
	if s[2] != 120 {
		t.Fatalf("C3 = %d", s[2])
	}
	// 300 words over 11 sentences, mean 27, misses C4
	s = HeuristicScores(strings.Repeat(words(30)+". ", 10))
	if s[3] != 120 {
		t.Fatalf("C4 = %d", s[3])
	}
	// two sentences without a final period, mean 15, hit C4
	s = HeuristicScores(words(15) + ". " + words(15))
	if s[3] != 160 {
		t.Fatalf("C4 = %d", s[3])
	}
}

func TestHeuristicScores_Proposal(t *testing.T) {
	for _, text := range []string{"Uma PROPOSTA clara", "a solução é simples", "é Necessário agir", "soluc\u0327a\u0303o"} {
		if got := HeuristicScores(text)[4]; got != 160 {
			t.Fatalf("%q: C5=%d", text, got)
		}
	}
	if got := HeuristicScores("nada a declarar")[4]; got != 80 {
		t.Fatalf("C5=%d", got)
	}
}
