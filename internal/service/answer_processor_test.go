package service

import (
	"strings"
	"testing"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

func newTestSession() *model.Session {
	return &model.Session{
		ID:                   "sess-1",
		Phase:                model.PhaseQuestioning,
		CurrentQuestionIndex: 1,
		Categories:           model.NewEvaluationCategories(),
	}
}

func newTestProcessor() *AnswerProcessor {
	return NewAnswerProcessor(nil, NewScoreDeduplicator(1), 8)
}

const validAnswer = "I have spent the last three years building backend services in Python " +
	"and I am proud of the reliability work my team delivered across several projects"

func TestProcessDropsInvalidAnswers(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		source model.AnswerSource
		reason string
	}{
		{
			name:   "empty text",
			text:   "   ",
			source: model.SourceText,
			reason: "Ignored empty response.",
		},
		{
			name:   "glitch echo",
			text:   "there was a Technical Glitch in the audio",
			source: model.SourceVoice,
			reason: "Ignored system error message as user input.",
		},
		{
			name:   "glitch message verbatim",
			text:   GlitchMessage,
			source: model.SourceVoice,
			reason: "Ignored system error message as user input.",
		},
		{
			name:   "tiny voice fragment",
			text:   "ah",
			source: model.SourceVoice,
			reason: "Ignored very short voice transcript.",
		},
		{
			name:   "noise without a real word",
			text:   "uh um",
			source: model.SourceText,
			reason: "Ignored unclear or too short response.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newTestSession()
			res := newTestProcessor().Process(sess, tt.text, tt.source)
			if res.Accepted {
				t.Fatalf("Process(%q) accepted, want drop", tt.text)
			}
			if res.DropReason != tt.reason {
				t.Errorf("DropReason = %q, want %q", res.DropReason, tt.reason)
			}
			if sess.AnsweredCount != 0 || len(sess.History) != 0 {
				t.Errorf("dropped answer mutated session: count=%d history=%d",
					sess.AnsweredCount, len(sess.History))
			}
		})
	}
}

func TestProcessDropsVoiceEchoOfPrompt(t *testing.T) {
	sess := newTestSession()
	sess.LastPrompt = "Can you tell me about yourself?"

	res := newTestProcessor().Process(sess, "can you tell me about yourself?", model.SourceVoice)
	if res.Accepted || res.DropReason != "Ignored transcript that matched AI question." {
		t.Errorf("echo not filtered: accepted=%v reason=%q", res.Accepted, res.DropReason)
	}

	// The same text typed is a candidate question, not an echo.
	typed := newTestProcessor().Process(newTestSession(), "can you tell me about yourself?", model.SourceText)
	if typed.Deflection != DeflectionMessage {
		t.Errorf("typed question deflection = %q", typed.Deflection)
	}
}

func TestProcessDeflectsCandidateQuestions(t *testing.T) {
	sess := newTestSession()
	res := newTestProcessor().Process(sess, "how did I do so far?", model.SourceText)

	if res.Accepted {
		t.Fatal("candidate question was accepted as an answer")
	}
	if res.Deflection != DeflectionMessage {
		t.Errorf("Deflection = %q, want the canned deflection", res.Deflection)
	}
	if sess.LastPrompt != DeflectionMessage {
		t.Error("deflection was not stored as the last prompt")
	}
	if sess.AnsweredCount != 0 {
		t.Errorf("AnsweredCount = %d, want 0", sess.AnsweredCount)
	}

	// Long questions are treated as rhetorical and accepted.
	long := newTestProcessor().Process(newTestSession(),
		"would it make sense for me to describe the architecture of my last project in more detail?",
		model.SourceText)
	if !long.Accepted {
		t.Error("eight-plus word question should be accepted as an answer")
	}
}

func TestProcessAcceptedAnswerScoresAndCounts(t *testing.T) {
	sess := newTestSession()
	res := newTestProcessor().Process(sess, validAnswer, model.SourceVoice)

	if !res.Accepted {
		t.Fatalf("valid answer dropped: %q", res.DropReason)
	}
	if sess.AnsweredCount != 1 {
		t.Errorf("AnsweredCount = %d, want 1", sess.AnsweredCount)
	}
	if len(sess.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(sess.History))
	}
	entry := sess.History[0]
	if entry.CategoryID != model.CategoryIntroduction {
		t.Errorf("first answer category = %q, want introduction", entry.CategoryID)
	}
	if entry.Score < 0 || entry.Score > 10 {
		t.Errorf("entry score %v outside [0,10]", entry.Score)
	}
	if entry.Source != model.SourceVoice {
		t.Errorf("entry source = %q", entry.Source)
	}

	cat := sess.Category(model.CategoryIntroduction)
	if cat.Samples != 1 || cat.Score != entry.Score {
		t.Errorf("category aggregate samples=%d score=%v, want 1 sample of %v",
			cat.Samples, cat.Score, entry.Score)
	}
}

func TestProcessCategoryRotation(t *testing.T) {
	sess := newTestSession()
	p := newTestProcessor()

	wantOrder := []string{
		model.CategoryIntroduction,
		model.CategoryProject,
		model.CategoryPythonCoding,
		model.CategorySQL,
		model.CategoryCommunication,
		model.CategoryIntroduction, // wraps around
	}
	for i, want := range wantOrder {
		res := p.Process(sess, validAnswer, model.SourceText)
		if !res.Accepted {
			t.Fatalf("answer %d dropped: %q", i, res.DropReason)
		}
		if res.Entry.CategoryID != want {
			t.Errorf("answer %d category = %q, want %q", i, res.Entry.CategoryID, want)
		}
		// The orchestrator advances the index after each accepted answer.
		sess.CurrentQuestionIndex++
	}
}

func TestProcessAnsweredCountCapped(t *testing.T) {
	sess := newTestSession()
	p := newTestProcessor()
	for i := 0; i < 12; i++ {
		p.Process(sess, validAnswer, model.SourceText)
		sess.CurrentQuestionIndex++
	}
	if sess.AnsweredCount != 8 {
		t.Errorf("AnsweredCount = %d, want capped at 8", sess.AnsweredCount)
	}
}

func TestRecordCodingUsesProvidedScore(t *testing.T) {
	sess := newTestSession()
	p := newTestProcessor()

	details := model.ScoreDetails{Score: 7, CriteriaMet: 4, CriteriaTotal: 5}
	entry := p.RecordCoding(sess, model.CategoryPythonCoding, "def sum_even(nums):\n    return 0", details)

	if entry.Source != model.SourceCoding {
		t.Errorf("source = %q, want coding", entry.Source)
	}
	if entry.Score < 6 || entry.Score > 8 {
		t.Errorf("score %v drifted more than a point from 7", entry.Score)
	}
	cat := sess.Category(model.CategoryPythonCoding)
	if cat.Samples != 1 || cat.CriteriaMet != 4 || cat.CriteriaTotal != 5 {
		t.Errorf("aggregate = %+v, want the provided criteria recorded", cat)
	}
	if sess.AnsweredCount != 0 {
		t.Error("coding submissions must not count toward spoken answers")
	}
	if !strings.Contains(entry.Answer, "def sum_even") {
		t.Errorf("entry answer = %q", entry.Answer)
	}
}
