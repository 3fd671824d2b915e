package model

import "time"

// AnswerSource tags which channel an answer arrived on
type AnswerSource string

const (
	SourceText   AnswerSource = "text"
	SourceVoice  AnswerSource = "voice"
	SourceCoding AnswerSource = "coding"
)

// Category ids. The five fixed categories exist for the whole session;
// coding submissions score into CategoryPythonCoding/CategorySQL.
const (
	CategoryIntroduction  = "introduction"
	CategoryProject       = "project"
	CategoryPythonCoding  = "python-coding"
	CategorySQL           = "sql"
	CategoryCommunication = "communication"
)

// EvaluationCategory accumulates per-category scoring for the report.
// Score is a running sum of per-answer scores in [0,10]; average is
// Score/Samples. Never reset mid-session.
type EvaluationCategory struct {
	ID            string  `json:"id" bson:"id"`
	Label         string  `json:"label" bson:"label"`
	Score         float64 `json:"score" bson:"score"`
	Samples       int     `json:"samples" bson:"samples"`
	CriteriaMet   int     `json:"criteriaMet" bson:"criteriaMet"`
	CriteriaTotal int     `json:"criteriaTotal" bson:"criteriaTotal"`
}

// Average returns the mean per-answer score, or 0 with no samples.
func (c *EvaluationCategory) Average() float64 {
	if c.Samples == 0 {
		return 0
	}
	return c.Score / float64(c.Samples)
}

// NewEvaluationCategories returns the fixed category set for a new session.
func NewEvaluationCategories() []*EvaluationCategory {
	return []*EvaluationCategory{
		{ID: CategoryIntroduction, Label: "Self Introduction"},
		{ID: CategoryProject, Label: "Project Explanation"},
		{ID: CategoryPythonCoding, Label: "Python Coding"},
		{ID: CategorySQL, Label: "SQL"},
		{ID: CategoryCommunication, Label: "Communication"},
	}
}

// ScoreDetails is the result of evaluating one answer against a rubric.
type ScoreDetails struct {
	Score         float64 `json:"score"`
	CriteriaMet   int     `json:"criteriaMet"`
	CriteriaTotal int     `json:"criteriaTotal"`
}

// PerformanceEntry is one append-only record in the session history.
type PerformanceEntry struct {
	ID            string       `json:"id,omitempty" bson:"_id,omitempty"`
	SessionID     string       `json:"sessionId" bson:"sessionId"`
	Timestamp     time.Time    `json:"timestamp" bson:"timestamp"`
	CategoryID    string       `json:"categoryId" bson:"categoryId"`
	QuestionIndex int          `json:"questionIndex" bson:"questionIndex"`
	Answer        string       `json:"answer" bson:"answer"`
	Sentiment     float64      `json:"sentiment" bson:"sentiment"`
	Score         float64      `json:"score" bson:"score"`
	Source        AnswerSource `json:"source" bson:"source"`
}
