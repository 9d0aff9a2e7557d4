package types

import (
	"time"

	"github.com/google/uuid"
)

// ExamType identifies an entrance exam whose essay rubric may be registered.
// example: ENEM
type ExamType string

const (
	ExamEnem    ExamType = "ENEM"
	ExamFuvest  ExamType = "FUVEST"
	ExamUnicamp ExamType = "UNICAMP"
	ExamUnesp   ExamType = "UNESP"
	ExamUerj    ExamType = "UERJ"
	ExamIta     ExamType = "ITA"
	ExamIme     ExamType = "IME"
	ExamUfrj    ExamType = "UFRJ"
	ExamUfmg    ExamType = "UFMG"
	ExamUfsc    ExamType = "UFSC"
	ExamUfrgs   ExamType = "UFRGS"
	ExamUfpr    ExamType = "UFPR"
	ExamUfscar  ExamType = "UFSCAR"
	ExamUfpe    ExamType = "UFPE"
	ExamUfba    ExamType = "UFBA"
	ExamUfc     ExamType = "UFC"
	ExamUfpa    ExamType = "UFPA"
	ExamUfam    ExamType = "UFAM"
	ExamUfac    ExamType = "UFAC"
	ExamUfrn    ExamType = "UFRN"
	ExamUfms    ExamType = "UFMS"
	ExamUfg     ExamType = "UFG"
	ExamUfes    ExamType = "UFES"
	ExamUfjf    ExamType = "UFJF"
	ExamUfv     ExamType = "UFV"
	ExamUftm    ExamType = "UFTM"
	ExamUfpb    ExamType = "UFPB"
	ExamUfpi    ExamType = "UFPI"
	ExamUfma    ExamType = "UFMA"
	ExamUfs     ExamType = "UFS"
	ExamUft     ExamType = "UFT"
	ExamUfopa   ExamType = "UFOPA"
	ExamUnb     ExamType = "UNB"
	ExamUeg     ExamType = "UEG"
	ExamUema    ExamType = "UEMA"
	ExamUece    ExamType = "UECE"
	ExamUern    ExamType = "UERN"
	ExamUepb    ExamType = "UEPB"
	ExamUepg    ExamType = "UEPG"
	ExamUel     ExamType = "UEL"
	ExamUnemat  ExamType = "UNEMAT"
	ExamUerr    ExamType = "UERR"
	ExamUea     ExamType = "UEA"
	ExamUfrr    ExamType = "UFRR"
	ExamUpe     ExamType = "UPE"
	ExamUenf    ExamType = "UENF"
	ExamUnifesp ExamType = "UNIFESP"
	ExamUesc    ExamType = "UESC"
	ExamUemg    ExamType = "UEMG"
	ExamUem     ExamType = "UEM"
	ExamUesb    ExamType = "UESB"
	ExamUespi   ExamType = "UESPI"
	ExamUesf    ExamType = "UESF"
	ExamUesr    ExamType = "UESR"
	ExamUesg    ExamType = "UESG"
)

var examDisplayNames = map[ExamType]string{
	ExamEnem:   "ENEM",
	ExamFuvest: "FUVEST (USP)",
}

// DisplayName returns the human-facing exam label.
func (e ExamType) DisplayName() string {
	if n, ok := examDisplayNames[e]; ok {
		return n
	}
	return string(e)
}

// DefaultMaxScore is the nominal essay ceiling for the exam, used when no
// rubric is registered for it.
func (e ExamType) DefaultMaxScore() int {
	switch e {
	case ExamEnem, ExamUfmg, ExamUfpe, ExamUfba, ExamUfc, ExamUfpa, ExamUfam, ExamUfac,
		ExamUfrn, ExamUfms, ExamUfes, ExamUfpb, ExamUfpi, ExamUfma, ExamUfopa, ExamUema,
		ExamUece, ExamUern, ExamUnemat, ExamUerr, ExamUea, ExamUfrr, ExamUpe:
		return 1000
	case ExamFuvest:
		return 48
	case ExamUnicamp:
		return 60
	case ExamUnesp:
		return 40
	case ExamUerj:
		return 20
	case ExamIta:
		return 50
	case ExamIme:
		return 100
	case ExamUfrj:
		return 10
	default:
		return 100
	}
}

// EssayStatus is the lifecycle position of an essay.
type EssayStatus string

const (
	EssayInProgress EssayStatus = "in_progress"
	EssaySubmitted  EssayStatus = "submitted"
	EssayGraded     EssayStatus = "graded"
)

// Essay is the record consumed and produced by evaluation. Graded fields are
// only ever written by the evaluation service.
type Essay struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	ExamType     ExamType      `json:"exam_type"`
	Status       EssayStatus   `json:"status"`
	Score        *int          `json:"score,omitempty"`
	MaxScore     int           `json:"max_score"`
	Feedback     *string       `json:"feedback,omitempty"`
	Corrections  []Correction  `json:"corrections,omitempty"`
	RubricScores *RubricScores `json:"rubric_scores,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	SubmittedAt  *time.Time    `json:"submitted_at,omitempty"`
}

// NewEssay builds an in-progress essay with a fresh id.
func NewEssay(userID uuid.UUID, title, content string, exam ExamType, now time.Time) Essay {
	return Essay{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		ExamType:  exam,
		Status:    EssayInProgress,
		MaxScore:  exam.DefaultMaxScore(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Correction is an advisory, non-binding annotation on the essay text.
type Correction struct {
	Position        int    `json:"position"`
	OriginalText    string `json:"original_text"`
	SuggestedText   string `json:"suggested_text"`
	Reason          string `json:"reason"`
	RubricCriterion string `json:"rubric_criterion"`
}

// RubricScores holds the per-criterion score and feedback text.
type RubricScores struct {
	Scores           map[string]int    `json:"scores"`
	DetailedFeedback map[string]string `json:"detailed_feedback"`
}

// Rubric describes how one exam grades essays.
type Rubric struct {
	ExamType    ExamType    `json:"exam_type" yaml:"exam_type" toml:"exam_type"`
	MaxScore    int         `json:"max_score" yaml:"max_score" toml:"max_score"`
	Description string      `json:"description" yaml:"description" toml:"description"`
	Criteria    []Criterion `json:"criteria" yaml:"criteria" toml:"criteria"`
}

// Criterion is one named, weighted part of a rubric.
type Criterion struct {
	Name             string   `json:"name" yaml:"name" toml:"name"`
	Description      string   `json:"description" yaml:"description" toml:"description"`
	Weight           float64  `json:"weight" yaml:"weight" toml:"weight"`
	MaxScore         int      `json:"max_score" yaml:"max_score" toml:"max_score"`
	EvaluationPoints []string `json:"evaluation_points" yaml:"evaluation_points" toml:"evaluation_points"`
}

// EssayRepository persists essays. Storage lives outside this module.
type EssayRepository interface {
	Save(essay Essay) error
	FindByID(id uuid.UUID) (Essay, bool, error)
	ListByUser(userID uuid.UUID) ([]Essay, error)
	Update(essay Essay) error
}

// RubricRepository lists rubrics from an external store.
type RubricRepository interface {
	FindByExamType(exam ExamType) (Rubric, bool, error)
	ListAll() ([]Rubric, error)
}
