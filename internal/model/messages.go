package model

import "time"

// Outbound WebSocket message types.
const (
	MsgPhaseChange    = "phase_change"
	MsgChatMessage    = "chat_message"
	MsgQuestion       = "question"
	MsgCodingQuestion = "coding_question"
	MsgProctorWarning = "proctor_warning"
	MsgInsight        = "insight"
	MsgProgress       = "progress"
	MsgReportReady    = "report_ready"
	MsgTerminated     = "terminated"
	MsgError          = "error"
)

// OutboundMessage is the envelope pushed to session WebSocket clients.
type OutboundMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ChatMessage is one line in the interview transcript.
type ChatMessage struct {
	Sender    string    `json:"sender"` // "bot" or "user"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressPayload reports counters to the client after each answer.
type ProgressPayload struct {
	AnsweredCount       int   `json:"answeredCount"`
	CodingQuestionCount int   `json:"codingQuestionCount"`
	Phase               Phase `json:"phase"`
}
