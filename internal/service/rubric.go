package service

import (
	"math"
	"strings"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// Criterion types. Keyword-family types differ only in which keyword list
// they carry; structure requires at least two hits.
const (
	criterionLength    = "length"
	criterionKeyword   = "keyword"
	criterionStructure = "structure"
	criterionImpact    = "impact"
	criterionChallenge = "challenge"
	criterionExample   = "example"
	criterionDepth     = "depth"
	criterionSentiment = "sentiment"
)

// Criterion is one weighted check in a category rubric.
type Criterion struct {
	Type         string
	Keywords     []string
	MinWords     int
	MinSentiment float64
	Weight       float64
	Description  string
}

// evaluationRubric maps category ids to their scoring criteria.
var evaluationRubric = map[string][]Criterion{
	model.CategoryIntroduction: {
		{Type: criterionLength, MinWords: 25, Weight: 2, Description: "Provides enough background detail"},
		{Type: criterionKeyword, Keywords: []string{"experience", "background", "education", "skills"}, Weight: 2, Description: "Mentions experience/education/skills"},
		{Type: criterionStructure, Keywords: []string{"currently", "previously", "looking", "passion"}, Weight: 1.5, Description: "Explains current role and goals"},
	},
	model.CategoryProject: {
		{Type: criterionKeyword, Keywords: []string{"project", "built", "developed", "implemented"}, Weight: 1.5, Description: "References a concrete project"},
		{Type: criterionImpact, Keywords: []string{"result", "impact", "improved", "reduced", "increased"}, Weight: 2, Description: "Mentions measurable impact"},
		{Type: criterionChallenge, Keywords: []string{"challenge", "problem", "issue", "difficult"}, Weight: 1.5, Description: "Describes challenges and resolution"},
	},
	model.CategoryPythonCoding: {
		{Type: criterionKeyword, Keywords: []string{"function", "class", "loop", "recursion", "data structure"}, Weight: 2, Description: "Mentions coding constructs"},
		{Type: criterionExample, Keywords: []string{"for example", "for instance", "e.g.", "such as"}, Weight: 1.5, Description: "Provides concrete example"},
		{Type: criterionDepth, Keywords: []string{"algorithm", "optimiz", "edge case"}, Weight: 1.5, Description: "Shows reasoning/edge cases"},
	},
	model.CategorySQL: {
		{Type: criterionKeyword, Keywords: []string{"join", "query", "index", "transaction", "aggregate"}, Weight: 2, Description: "References SQL concepts"},
		{Type: criterionImpact, Keywords: []string{"optimiz", "performance", "latency"}, Weight: 1.5, Description: "Speaks about optimization/impact"},
		{Type: criterionLength, MinWords: 18, Weight: 1, Description: "Answer has enough detail"},
	},
	model.CategoryCommunication: {
		{Type: criterionKeyword, Keywords: []string{"team", "collaborat", "stakeholder", "communication"}, Weight: 2, Description: "Mentions teamwork/communication"},
		{Type: criterionSentiment, MinSentiment: 0.1, Weight: 1.5, Description: "Keeps positive/constructive tone"},
		{Type: criterionStructure, Keywords: []string{"first", "then", "finally", "overall"}, Weight: 1, Description: "Uses structured storytelling"},
	},
}

// ScoreAnswer evaluates an answer against its category rubric and returns
// a score in [0, 10] rounded to one decimal. Categories without a rubric
// fall back to a sentiment-and-length heuristic centered on 5.
func ScoreAnswer(categoryID, answer string, sentiment float64) model.ScoreDetails {
	rubric, ok := evaluationRubric[categoryID]
	if !ok {
		fallback := clamp(5+sentiment*3+math.Min(2, float64(len(answer))/120), 0, 10)
		return model.ScoreDetails{Score: round1(fallback)}
	}

	lower := strings.ToLower(answer)
	earned, totalWeight := 0.0, 0.0
	met := 0
	for _, c := range rubric {
		totalWeight += c.Weight
		if criterionSatisfied(c, lower, answer, sentiment) {
			earned += c.Weight
			met++
		}
	}

	score := 5.0
	if totalWeight > 0 {
		score = earned / totalWeight * 10
	}
	return model.ScoreDetails{
		Score:         round1(clamp(score, 0, 10)),
		CriteriaMet:   met,
		CriteriaTotal: len(rubric),
	}
}

// RubricSize returns the criterion count for a category, 0 if none.
func RubricSize(categoryID string) int {
	return len(evaluationRubric[categoryID])
}

func criterionSatisfied(c Criterion, lower, raw string, sentiment float64) bool {
	switch c.Type {
	case criterionLength:
		return len(strings.Fields(raw)) >= c.MinWords
	case criterionStructure:
		hits := 0
		for _, kw := range c.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		return hits >= 2
	case criterionKeyword, criterionImpact, criterionChallenge, criterionExample, criterionDepth:
		for _, kw := range c.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	case criterionSentiment:
		return sentiment >= c.MinSentiment
	default:
		return false
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
