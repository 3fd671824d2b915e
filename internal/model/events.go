package model

import "time"

// Event is the union of external and internal happenings the orchestrator
// reacts to. Each concrete type is handled by a single transition branch.
type Event interface {
	eventName() string
}

// SetupStepCompleted reports one setup sub-step result from the client.
type SetupStepCompleted struct {
	Step SetupStep
	OK   bool
}

// AnswerSubmitted carries a candidate answer from the text or voice channel.
type AnswerSubmitted struct {
	Text   string
	Source AnswerSource
}

// CodeSubmitted carries a coding-phase submission.
type CodeSubmitted struct {
	Code          string
	Executed      bool
	ExecSucceeded bool
}

// CodingSkipped is the candidate abandoning the coding section.
type CodingSkipped struct{}

// QuestionReady is the async question-generation result re-entering the
// orchestrator. Seq guards against surfacing stale results.
type QuestionReady struct {
	Question string
	Seq      uint64
}

// ProctorViolation is a zero-tolerance proctoring trigger or the gaze
// warning counter reaching its limit.
type ProctorViolation struct {
	Signal SignalType
	Detail string
}

// ProctorWarning is a debounced, rate-limited gaze warning.
type ProctorWarning struct {
	Count int
	Max   int
}

// Tick is the periodic end-of-interview guard check.
type Tick struct {
	At time.Time
}

// Paused and Resumed bracket a candidate-initiated pause. Resumed carries
// whether media could be reacquired.
type Paused struct{}

type Resumed struct {
	MediaOK bool
}

// StageAcknowledged advances REPORTING -> FEEDBACK -> TERMINATED_NORMAL.
type StageAcknowledged struct {
	Stage string // "report" or "feedback"
}

func (SetupStepCompleted) eventName() string { return "setup_step" }
func (AnswerSubmitted) eventName() string    { return "answer_submitted" }
func (CodeSubmitted) eventName() string      { return "code_submitted" }
func (CodingSkipped) eventName() string      { return "coding_skipped" }
func (QuestionReady) eventName() string      { return "question_ready" }
func (ProctorViolation) eventName() string   { return "proctor_violation" }
func (ProctorWarning) eventName() string     { return "proctor_warning" }
func (Tick) eventName() string               { return "tick" }
func (Paused) eventName() string             { return "paused" }
func (Resumed) eventName() string            { return "resumed" }
func (StageAcknowledged) eventName() string  { return "stage_ack" }
