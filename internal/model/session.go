package model

import "time"

// Phase is the orchestrator state machine state
type Phase string

const (
	PhaseSetup               Phase = "SETUP"
	PhaseGreeting            Phase = "GREETING"
	PhaseQuestioning         Phase = "QUESTIONING"
	PhaseTransitioningCoding Phase = "TRANSITIONING_TO_CODING"
	PhaseCoding              Phase = "CODING"
	PhaseReporting           Phase = "REPORTING"
	PhaseFeedback            Phase = "FEEDBACK"
	PhaseTerminatedNormal    Phase = "TERMINATED_NORMAL"
	PhaseTerminatedViolation Phase = "TERMINATED_VIOLATION"
)

// Terminal reports whether no further transitions are possible from p.
func (p Phase) Terminal() bool {
	return p == PhaseTerminatedNormal || p == PhaseTerminatedViolation
}

// Active reports whether proctoring signals apply in p.
func (p Phase) Active() bool {
	return p == PhaseQuestioning || p == PhaseCoding
}

// SetupStep is one of the device-check sub-steps that gate SETUP -> GREETING
type SetupStep string

const (
	SetupCamera     SetupStep = "camera"
	SetupMicrophone SetupStep = "microphone"
	SetupSpeaker    SetupStep = "speaker"
	SetupName       SetupStep = "name"
	SetupScreen     SetupStep = "screen"
)

// SetupSteps is the canonical ordering of setup sub-steps.
var SetupSteps = []SetupStep{SetupCamera, SetupMicrophone, SetupSpeaker, SetupName, SetupScreen}

// CandidateProfile identifies the candidate. Name edits are allowed only
// while the session is still in SETUP.
type CandidateProfile struct {
	Name          string `json:"name" bson:"name"`
	InterviewName string `json:"interviewName" bson:"interviewName"`
}

// Session is the root aggregate for one interview run. It is created on
// session start and mutated only by the orchestrator.
type Session struct {
	ID                   string           `json:"id" bson:"_id,omitempty"`
	Phase                Phase            `json:"phase" bson:"phase"`
	Candidate            CandidateProfile `json:"candidate" bson:"candidate"`
	StartedAt            time.Time        `json:"startedAt" bson:"startedAt"`
	EndedAt              *time.Time       `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	TotalPausedDuration  time.Duration    `json:"totalPausedDuration" bson:"totalPausedDuration"`
	AnsweredCount        int              `json:"answeredCount" bson:"answeredCount"`
	CurrentQuestionIndex int              `json:"currentQuestionIndex" bson:"currentQuestionIndex"`
	CodingQuestionCount  int              `json:"codingQuestionCount" bson:"codingQuestionCount"`
	CodingLanguage       string           `json:"codingLanguage,omitempty" bson:"codingLanguage,omitempty"`
	Terminated           bool             `json:"terminated" bson:"terminated"`
	TerminationReason    string           `json:"terminationReason,omitempty" bson:"terminationReason,omitempty"`
	LastPrompt           string           `json:"lastPrompt,omitempty" bson:"lastPrompt,omitempty"`

	Setup      map[SetupStep]bool    `json:"setup" bson:"setup"`
	Categories []*EvaluationCategory `json:"categories" bson:"categories"`
	History    []PerformanceEntry    `json:"history" bson:"history"`
	Proctoring ProctoringState       `json:"proctoring" bson:"proctoring"`
}

// SetupComplete reports whether every setup sub-step has succeeded.
func (s *Session) SetupComplete() bool {
	for _, step := range SetupSteps {
		if !s.Setup[step] {
			return false
		}
	}
	return s.Candidate.Name != ""
}

// Elapsed returns active interview time, excluding paused stretches.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt) - s.TotalPausedDuration
}

// Category returns the evaluation category with the given id, or nil.
func (s *Session) Category(id string) *EvaluationCategory {
	for _, c := range s.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}
