package model

import "time"

// Performance level bands for category averages.
const (
	LevelExcellent        = "excellent"
	LevelStrong           = "strong"
	LevelCompetent        = "competent"
	LevelDeveloping       = "developing"
	LevelNeedsImprovement = "needs improvement"
)

// PerformanceLevel maps a 0-10 average to a qualitative band.
func PerformanceLevel(average float64) string {
	switch {
	case average >= 8.5:
		return LevelExcellent
	case average >= 7:
		return LevelStrong
	case average >= 5.5:
		return LevelCompetent
	case average >= 4:
		return LevelDeveloping
	default:
		return LevelNeedsImprovement
	}
}

// CategoryReport is one category line in the final report.
type CategoryReport struct {
	ID               string   `json:"id" bson:"id"`
	Label            string   `json:"label" bson:"label"`
	Average          float64  `json:"average" bson:"average"`
	Samples          int      `json:"samples" bson:"samples"`
	CriteriaMet      int      `json:"criteriaMet" bson:"criteriaMet"`
	CriteriaTotal    int      `json:"criteriaTotal" bson:"criteriaTotal"`
	PerformanceLevel string   `json:"performanceLevel" bson:"performanceLevel"`
	Recommendations  []string `json:"recommendations" bson:"recommendations"`
}

// PerformanceReport is the exportable end-of-interview summary.
type PerformanceReport struct {
	SessionID     string           `json:"sessionId" bson:"_id,omitempty"`
	Candidate     CandidateProfile `json:"candidate" bson:"candidate"`
	OverallScore  float64          `json:"overallScore" bson:"overallScore"`
	TotalTime     string           `json:"totalTime" bson:"totalTime"`
	QuestionCount int              `json:"questionCount" bson:"questionCount"`
	Terminated    bool             `json:"terminated" bson:"terminated"`
	Categories    []CategoryReport `json:"categories" bson:"categories"`
	GeneratedAt   time.Time        `json:"generatedAt" bson:"generatedAt"`
}

// Feedback is the candidate's post-interview feedback form submission.
type Feedback struct {
	SessionID   string    `json:"sessionId" bson:"sessionId"`
	Rating      int       `json:"rating" bson:"rating"`
	Comments    string    `json:"comments,omitempty" bson:"comments,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// InsightEntry is one operator-feed line. The feed is bounded to the
// last 10 entries.
type InsightEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}
