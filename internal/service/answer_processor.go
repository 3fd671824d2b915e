package service

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// Canned messages echoed back to the candidate. Rule 2 of the validation
// pipeline guards against the recognizer feeding these back as input.
const (
	GlitchMessage     = "I seem to have experienced a small technical glitch. Can you tell me more about that, or perhaps elaborate on your last point?"
	DeflectionMessage = "I'd be happy to answer that after the interview. For now, could you tell me more about your background or experience?"
)

var meaningfulRun = regexp.MustCompile(`[a-zA-Z]{4,}`)

// ProcessResult reports what the processor did with an answer.
type ProcessResult struct {
	Accepted   bool
	DropReason string // operator feed diagnostic when dropped
	Deflection string // bot reply when the candidate asked a question
	Entry      *model.PerformanceEntry
}

// AnswerProcessor validates incoming answers, scores the ones that pass,
// and appends them to the session history. The caller holds the session
// lock for the duration of Process.
type AnswerProcessor struct {
	engine *QuestionEngine
	dedup  *ScoreDeduplicator
	now    func() time.Time

	maxQuestions int
}

// NewAnswerProcessor creates an answer processor.
func NewAnswerProcessor(engine *QuestionEngine, dedup *ScoreDeduplicator, maxQuestions int) *AnswerProcessor {
	return &AnswerProcessor{
		engine:       engine,
		dedup:        dedup,
		now:          time.Now,
		maxQuestions: maxQuestions,
	}
}

// SetClock overrides the processor clock. Test hook.
func (p *AnswerProcessor) SetClock(now func() time.Time) {
	p.now = now
}

// Process runs the validation pipeline and, on acceptance, scores the
// answer into its rotating category and mutates the session counters.
func (p *AnswerProcessor) Process(sess *model.Session, rawText string, source model.AnswerSource) ProcessResult {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return dropped("Ignored empty response.")
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "technical glitch") || lower == strings.ToLower(GlitchMessage) {
		return dropped("Ignored system error message as user input.")
	}

	if p.engine != nil && p.engine.InFlight() {
		return dropped("Please wait, generating next question...")
	}

	if source == model.SourceVoice {
		if len(text) < 3 {
			return dropped("Ignored very short voice transcript.")
		}
		if sess.LastPrompt != "" && lower == strings.ToLower(sess.LastPrompt) {
			return dropped("Ignored transcript that matched AI question.")
		}
	}

	words := strings.Fields(text)
	if len(words) < 3 && !meaningfulRun.MatchString(text) {
		return dropped("Ignored unclear or too short response.")
	}

	if strings.HasSuffix(text, "?") && len(words) < 8 {
		// The candidate asked a question instead of answering. The
		// deflection becomes the last prompt so a voice echo of it is
		// filtered next round.
		sess.LastPrompt = DeflectionMessage
		return ProcessResult{
			DropReason: "Ignored user question - waiting for answer.",
			Deflection: DeflectionMessage,
		}
	}

	sentiment := SentimentScore(text)
	if sess.AnsweredCount < p.maxQuestions {
		sess.AnsweredCount++
	}

	categoryID := p.selectCategory(sess)
	entry := p.record(sess, categoryID, text, sentiment, source)
	return ProcessResult{Accepted: true, Entry: entry}
}

// RecordCoding records a pre-scored coding submission into the language's
// category without running the text validation pipeline.
func (p *AnswerProcessor) RecordCoding(sess *model.Session, categoryID, code string, details model.ScoreDetails) *model.PerformanceEntry {
	return p.recordDetails(sess, categoryID, code, 0, model.SourceCoding, details)
}

// selectCategory rotates through the fixed category list by question
// index. Deliberately positional, not semantic; swapping in a classifier
// only requires changing this method.
func (p *AnswerProcessor) selectCategory(sess *model.Session) string {
	if len(sess.Categories) == 0 {
		return model.CategoryCommunication
	}
	idx := (sess.CurrentQuestionIndex - 1) % len(sess.Categories)
	if idx < 0 {
		idx += len(sess.Categories)
	}
	return sess.Categories[idx].ID
}

func (p *AnswerProcessor) record(sess *model.Session, categoryID, answer string, sentiment float64, source model.AnswerSource) *model.PerformanceEntry {
	return p.recordDetails(sess, categoryID, answer, sentiment, source, ScoreAnswer(categoryID, answer, sentiment))
}

func (p *AnswerProcessor) recordDetails(sess *model.Session, categoryID, answer string, sentiment float64, source model.AnswerSource, details model.ScoreDetails) *model.PerformanceEntry {
	score := details.Score
	if p.dedup != nil {
		score = p.dedup.Adjust(categoryID, details.Score, len(strings.Fields(answer)), sentiment)
	}

	category := sess.Category(categoryID)
	if category != nil {
		category.Score += score
		category.Samples++
		category.CriteriaMet += details.CriteriaMet
		category.CriteriaTotal += details.CriteriaTotal
	} else {
		log.Printf("[AnswerProcessor] Unknown category %q, score not aggregated", categoryID)
	}

	entry := model.PerformanceEntry{
		ID:            uuid.New().String(),
		SessionID:     sess.ID,
		Timestamp:     p.now(),
		CategoryID:    categoryID,
		QuestionIndex: sess.CurrentQuestionIndex,
		Answer:        answer,
		Sentiment:     sentiment,
		Score:         score,
		Source:        source,
	}
	sess.History = append(sess.History, entry)
	return &entry
}

func dropped(reason string) ProcessResult {
	return ProcessResult{DropReason: reason}
}
