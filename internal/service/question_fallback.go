package service

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// topicPool offers follow-up questions when the candidate's answer mentions
// a trigger and no earlier question already probed the theme.
type topicPool struct {
	triggers  []string // any-of match against the lowered answer
	askedMark []string // pool skipped if any asked question mentions one of these
	questions []string
}

var topicPools = []topicPool{
	{
		triggers:  []string{"python"},
		askedMark: []string{"python"},
		questions: []string{
			"You mentioned Python. Can you tell me about a specific Python project you've worked on?",
			"What Python libraries or frameworks are you most comfortable with?",
			"Can you explain a Python problem you solved recently?",
		},
	},
	{
		triggers:  []string{"sql"},
		askedMark: []string{"sql"},
		questions: []string{
			"You mentioned SQL. What's the most complex SQL query you've written?",
			"Can you describe a database optimization challenge you've faced?",
		},
	},
	{
		triggers:  []string{"javascript", "js"},
		askedMark: []string{"javascript"},
		questions: []string{
			"You mentioned JavaScript. What JavaScript frameworks or libraries have you used?",
			"Can you explain a JavaScript concept you find interesting?",
		},
	},
	{
		triggers:  []string{"project", "built", "developed", "created", "application", "assistant"},
		askedMark: []string{"project", "role"},
		questions: []string{
			"That project sounds interesting. What was your specific role and contribution?",
			"What technologies did you use in that project?",
			"What was the biggest challenge you faced while working on that project?",
			"What was the outcome or impact of that project?",
		},
	},
	{
		triggers:  []string{"internship", "experience", "worked"},
		askedMark: []string{"experience", "internship"},
		questions: []string{
			"Can you tell me more about your internship experience?",
			"What did you learn from that experience?",
			"What was the most valuable skill you gained?",
		},
	},
	{
		triggers:  []string{"skill", "technical", "problem solving"},
		askedMark: []string{"skill", "applied"},
		questions: []string{
			"Can you give me a concrete example of how you've applied those skills?",
			"What's a real-world problem you solved using those skills?",
		},
	},
}

// educationLadder is tried in order when the answer mentions education.
var educationLadder = []struct {
	askedMark []string
	question  string
}{
	{[]string{"motivated", "pursue"}, "What motivated you to pursue this field of study?"},
	{[]string{"challenging", "difficult"}, "What was the most challenging aspect of your studies?"},
	{[]string{"apply your education"}, "How do you plan to apply your education in your career?"},
}

var progressiveQuestions = []string{
	"That's interesting. Can you provide more specific details?",
	"What was the outcome or result of that?",
	"How did that experience help you grow professionally?",
	"What would you do differently if you had the chance?",
	"What's the most important lesson you learned from that?",
	"How does that relate to your career goals?",
	"Can you walk me through the process step by step?",
	"What challenges did you encounter and how did you overcome them?",
}

const closingQuestion = "Thank you for sharing. Is there anything else you'd like to add?"

// FallbackGenerator produces the next question locally when the remote
// API is unavailable. Every question it returns is recorded in the log so
// it is never repeated within a session.
type FallbackGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallbackGenerator returns a generator seeded for reproducibility.
func NewFallbackGenerator(seed int64) *FallbackGenerator {
	return &FallbackGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Next picks a follow-up for the answer: topic pools keyed on keywords in
// the answer first, then the education ladder, then an elaboration prompt
// for very short answers, then the progressive generic pool, and finally a
// closing filler once everything has been asked.
func (g *FallbackGenerator) Next(answerText string, log *model.QuestionLog) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	lower := strings.ToLower(answerText)

	var candidates []string
	for _, pool := range topicPools {
		if !anyContains(lower, pool.triggers) {
			continue
		}
		if anyMentioned(log, pool.askedMark) {
			continue
		}
		candidates = append(candidates, pool.questions...)
	}
	for _, q := range candidates {
		if !log.Asked(q) {
			log.Record(q)
			return q
		}
	}

	if anyContains(lower, []string{"education", "btech", "engineering"}) {
		for _, rung := range educationLadder {
			if !anyMentioned(log, rung.askedMark) {
				log.Record(rung.question)
				return rung.question
			}
		}
	}

	if len(strings.Fields(lower)) < 8 {
		q := "I'd like to hear more details. Could you elaborate on that?"
		log.Record(q)
		return q
	}

	var available []string
	for _, q := range progressiveQuestions {
		if !log.Asked(q) {
			available = append(available, q)
		}
	}
	if len(available) > 0 {
		q := available[g.rng.Intn(len(available))]
		log.Record(q)
		return q
	}

	log.Record(closingQuestion)
	return closingQuestion
}

func anyContains(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func anyMentioned(log *model.QuestionLog, keywords []string) bool {
	for _, kw := range keywords {
		if log.AnyMentions(kw) {
			return true
		}
	}
	return false
}
