package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// QuestionEngine produces the next interview question. It prefers the
// remote client but never fails: quota exhaustion permanently disables the
// network path for the session, recent errors debounce it, and every
// failure lands in the local fallback generator.
type QuestionEngine struct {
	client   QuestionClient
	fallback *FallbackGenerator

	errorDebounce time.Duration
	now           func() time.Time
	insight       func(string)

	mu             sync.Mutex
	inFlight       bool
	quotaExhausted bool
	lastErrorAt    time.Time
}

// NewQuestionEngine creates a question engine. insight receives operator
// feed diagnostics and may be nil.
func NewQuestionEngine(client QuestionClient, fallback *FallbackGenerator, cfg *config.InterviewConfig, insight func(string)) *QuestionEngine {
	return &QuestionEngine{
		client:        client,
		fallback:      fallback,
		errorDebounce: cfg.ErrorDebounce,
		now:           time.Now,
		insight:       insight,
	}
}

// SetClock overrides the engine clock. Test hook.
func (e *QuestionEngine) SetClock(now func() time.Time) {
	e.now = now
}

// InFlight reports whether a generation call is currently running. Answers
// arriving while true are dropped by the answer processor.
func (e *QuestionEngine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// NextQuestion returns the next question for the given answer, along with
// whether it came from the remote path. Blocks for at most the client
// timeout. Returns ok=false without generating if a call is already in
// flight; the caller waits for that one instead.
func (e *QuestionEngine) NextQuestion(ctx context.Context, req QuestionRequest, qlog *model.QuestionLog) (question string, remote bool, ok bool) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return "", false, false
	}
	e.inFlight = true
	skipNetwork := e.quotaExhausted || e.now().Sub(e.lastErrorAt) < e.errorDebounce
	quotaSkip := e.quotaExhausted
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if skipNetwork {
		if quotaSkip {
			e.addInsight("API quota exhausted this session, using fallback questions.")
		}
		return e.fallback.Next(req.LastAnswer, qlog), false, true
	}

	generated, err := e.client.GenerateQuestion(ctx, req)
	if err != nil {
		e.recordFailure(err)
		return e.fallback.Next(req.LastAnswer, qlog), false, true
	}

	// Best-effort dedup: a remote duplicate is still used, just recorded.
	qlog.Record(generated)
	e.mu.Lock()
	e.lastErrorAt = time.Time{}
	e.mu.Unlock()
	return generated, true, true
}

func (e *QuestionEngine) recordFailure(err error) {
	e.mu.Lock()
	e.lastErrorAt = e.now()
	if errors.Is(err, ErrQuotaExhausted) {
		e.quotaExhausted = true
	}
	e.mu.Unlock()

	switch {
	case errors.Is(err, ErrQuotaExhausted):
		e.addInsight("API quota exceeded, switching to fallback questions for the rest of the session.")
	case errors.Is(err, ErrNotConfigured):
		e.addInsight("Question API key not configured, using fallback questions.")
	default:
		e.addInsight("Using fallback question (API unavailable).")
	}
	log.Printf("[QuestionEngine] Generation failed: %v", err)
}

func (e *QuestionEngine) addInsight(msg string) {
	if e.insight != nil {
		e.insight(msg)
	}
}
