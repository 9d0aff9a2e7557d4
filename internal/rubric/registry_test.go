package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"neuronexus/pkg/types"
)

func TestDefault_Enem(t *testing.T) {
	r := Default()
	rb, ok := r.Get(types.ExamEnem)
	require.True(t, ok)
	require.Equal(t, 1000, rb.MaxScore)
	require.Len(t, rb.Criteria, 5)
	for i, c := range rb.Criteria {
		require.Equal(t, 200, c.MaxScore)
		require.InDelta(t, 0.2, c.Weight, 1e-9)
		require.Equal(t, "C"+string(rune('1'+i)), c.Name)
		require.NotEmpty(t, c.EvaluationPoints)
	}
}

func TestDefault_FuvestAndUnesp(t *testing.T) {
	r := Default()
	fu, ok := r.Get(types.ExamFuvest)
	require.True(t, ok)
	require.Equal(t, 48, fu.MaxScore)
	require.Equal(t, []string{"Estrutura", "Conteúdo", "Linguagem"}, criterionNames(fu))

	un, ok := r.Get(types.ExamUnesp)
	require.True(t, ok)
	require.Equal(t, 40, un.MaxScore)
	require.Len(t, un.Criteria, 5)
}

func TestGet_Unregistered(t *testing.T) {
	_, ok := Default().Get(types.ExamUnicamp)
	require.False(t, ok)
}

func TestGet_ReturnsCopy(t *testing.T) {
	r := Default()
	rb, _ := r.Get(types.ExamEnem)
	rb.Criteria[0].Name = "mutated"
	rb.Criteria[0].EvaluationPoints[0] = "mutated"
	again, _ := r.Get(types.ExamEnem)
	require.Equal(t, "C1", again.Criteria[0].Name)
	require.Equal(t, "Gramática e ortografia", again.Criteria[0].EvaluationPoints[0])
}

func TestExamTypes_Sorted(t *testing.T) {
	require.Equal(t, []types.ExamType{types.ExamEnem, types.ExamFuvest, types.ExamUnesp}, Default().ExamTypes())
	require.Len(t, Default().All(), 3)
}

func TestValidate(t *testing.T) {
	base := func() types.Rubric {
		return types.Rubric{
			ExamType: "TEST",
			MaxScore: 20,
			Criteria: []types.Criterion{
				{Name: "a", Weight: 0.5, MaxScore: 10},
				{Name: "b", Weight: 0.5, MaxScore: 10},
			},
		}
	}
	require.NoError(t, Validate(base()))

	cases := map[string]func(*types.Rubric){
		"sum mismatch":   func(r *types.Rubric) { r.MaxScore = 25 },
		"duplicate name": func(r *types.Rubric) { r.Criteria[1].Name = "a" },
		"empty name":     func(r *types.Rubric) { r.Criteria[0].Name = "" },
		"weight range":   func(r *types.Rubric) { r.Criteria[0].Weight = 1.5 },
		"weight sum":     func(r *types.Rubric) { r.Criteria[0].Weight = 0.1 },
		"no criteria":    func(r *types.Rubric) { r.Criteria = nil },
		"no exam":        func(r *types.Rubric) { r.ExamType = "" },
		"zero criterion": func(r *types.Rubric) { r.Criteria[0].MaxScore = 0; r.MaxScore = 10 },
	}
	for name, mutate := range cases {
		rb := base()
		mutate(&rb)
		err := Validate(rb)
		var ire *InvalidRubricError
		require.ErrorAs(t, err, &ire, name)
	}

	_, err := NewRegistry(base(), types.Rubric{ExamType: "BAD", MaxScore: 1})
	require.Error(t, err)
}

func TestScoreLevelDescription(t *testing.T) {
	require.Equal(t, "Ausência completa da competência ou desclassificação", ScoreLevelDescription(0))
	require.Equal(t, "Demonstração muito fraca", ScoreLevelDescription(40))
	require.Equal(t, "Demonstração fraca com deficiências significativas", ScoreLevelDescription(80))
	require.Equal(t, "Demonstração razoável com algumas deficiências", ScoreLevelDescription(120))
	require.Equal(t, "Boa demonstração com deficiências menores", ScoreLevelDescription(160))
	require.Equal(t, "Excelente demonstração da competência", ScoreLevelDescription(200))
	for _, s := range []int{-40, 1, 100, 199, 240} {
		require.Equal(t, "Pontuação inválida", ScoreLevelDescription(s))
	}
}

func TestLoadFile_AllFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"r.yaml": `rubrics:
  - exam_type: UERJ
    max_score: 20
    description: Redação UERJ
    criteria:
      - {name: Tema, weight: 0.5, max_score: 10, evaluation_points: [Adequação]}
      - {name: Texto, weight: 0.5, max_score: 10}
`,
		"r.json": `{"rubrics":[{"exam_type":"UERJ","max_score":20,"criteria":[{"name":"Tema","weight":0.5,"max_score":10},{"name":"Texto","weight":0.5,"max_score":10}]}]}`,
		"r.toml": `[[rubrics]]
exam_type = "UERJ"
max_score = 20

[[rubrics.criteria]]
name = "Tema"
weight = 0.5
max_score = 10

[[rubrics.criteria]]
name = "Texto"
weight = 0.5
max_score = 10
`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		rubrics, err := LoadFile(p)
		require.NoError(t, err, name)
		require.Len(t, rubrics, 1, name)
		require.Equal(t, types.ExamUerj, rubrics[0].ExamType, name)

		reg, err := WithDefaults(rubrics...)
		require.NoError(t, err, name)
		rb, ok := reg.Get(types.ExamUerj)
		require.True(t, ok)
		require.Equal(t, []string{"Tema", "Texto"}, criterionNames(rb))
		_, ok = reg.Get(types.ExamEnem)
		require.True(t, ok)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("")
	require.Error(t, err)
	dir := t.TempDir()
	p := filepath.Join(dir, "r.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err = LoadFile(p)
	require.Error(t, err)
	p = filepath.Join(dir, "r.json")
	require.NoError(t, os.WriteFile(p, []byte("{"), 0o644))
	_, err = LoadFile(p)
	require.Error(t, err)
}

func criterionNames(rb types.Rubric) []string {
	out := make([]string, len(rb.Criteria))
	for i, c := range rb.Criteria {
		out[i] = c.Name
	}
	return out
}
