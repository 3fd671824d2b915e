package model

import "strings"

// QuestionLog is the set of question strings already asked this session.
// De-duplication happens at emission time: every question handed to the
// candidate is recorded here, and the fallback generator filters against it.
type QuestionLog struct {
	asked []string
	seen  map[string]struct{}
}

// NewQuestionLog returns an empty log.
func NewQuestionLog() *QuestionLog {
	return &QuestionLog{seen: make(map[string]struct{})}
}

// Record adds a question to the log. Duplicate records are ignored.
func (l *QuestionLog) Record(question string) {
	if question == "" {
		return
	}
	if _, ok := l.seen[question]; ok {
		return
	}
	l.seen[question] = struct{}{}
	l.asked = append(l.asked, question)
}

// Asked reports whether the exact question string was already emitted.
func (l *QuestionLog) Asked(question string) bool {
	_, ok := l.seen[question]
	return ok
}

// AnyMentions reports whether any recorded question contains the given
// keyword, case-insensitively. The fallback generator uses this to skip
// topic pools whose theme was already probed.
func (l *QuestionLog) AnyMentions(keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, q := range l.asked {
		if strings.Contains(strings.ToLower(q), kw) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct questions recorded.
func (l *QuestionLog) Len() int {
	return len(l.asked)
}

// CodingQuestion is one entry in a language's coding bank.
type CodingQuestion struct {
	Prompt      string `json:"prompt"`
	Example     string `json:"example"`
	StarterCode string `json:"starterCode"`
	Language    string `json:"language"`
}

// Coding languages rotated by the coding controller.
const (
	LanguagePython = "python"
	LanguageSQL    = "sql"
)
