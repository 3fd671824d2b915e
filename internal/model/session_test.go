package model

import (
	"testing"
	"time"
)

func TestSetupComplete(t *testing.T) {
	sess := &Session{Setup: make(map[SetupStep]bool)}
	if sess.SetupComplete() {
		t.Fatal("empty setup reported complete")
	}

	for _, step := range SetupSteps {
		sess.Setup[step] = true
	}
	if sess.SetupComplete() {
		t.Fatal("setup complete without a candidate name")
	}

	sess.Candidate.Name = "Ada"
	if !sess.SetupComplete() {
		t.Fatal("all steps plus name should be complete")
	}

	sess.Setup[SetupScreen] = false
	if sess.SetupComplete() {
		t.Fatal("failed step reported complete")
	}
}

func TestElapsedExcludesPauses(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sess := &Session{StartedAt: start, TotalPausedDuration: 3 * time.Minute}

	if got := sess.Elapsed(start.Add(10 * time.Minute)); got != 7*time.Minute {
		t.Errorf("Elapsed = %v, want 7m", got)
	}

	unstarted := &Session{}
	if got := unstarted.Elapsed(start); got != 0 {
		t.Errorf("Elapsed before start = %v, want 0", got)
	}
}

func TestPhasePredicates(t *testing.T) {
	for _, p := range []Phase{PhaseTerminatedNormal, PhaseTerminatedViolation} {
		if !p.Terminal() {
			t.Errorf("%s should be terminal", p)
		}
		if p.Active() {
			t.Errorf("%s should not be active", p)
		}
	}
	for _, p := range []Phase{PhaseQuestioning, PhaseCoding} {
		if !p.Active() || p.Terminal() {
			t.Errorf("%s: Active=%v Terminal=%v", p, p.Active(), p.Terminal())
		}
	}
	if PhaseSetup.Active() || PhaseReporting.Active() {
		t.Error("setup/reporting phases should not be proctored")
	}
}

func TestQuestionLog(t *testing.T) {
	log := NewQuestionLog()
	log.Record("Tell me about your Python experience")
	log.Record("Tell me about your Python experience") // duplicate ignored
	log.Record("")                                     // empty ignored

	if log.Len() != 1 {
		t.Errorf("Len = %d, want 1", log.Len())
	}
	if !log.Asked("Tell me about your Python experience") {
		t.Error("recorded question not found")
	}
	if log.Asked("tell me about your python experience") {
		t.Error("Asked should be exact-match")
	}
	if !log.AnyMentions("PYTHON") {
		t.Error("AnyMentions should be case-insensitive")
	}
	if log.AnyMentions("sql") {
		t.Error("AnyMentions matched an absent keyword")
	}
}

func TestFaceGeometry(t *testing.T) {
	box := FaceBox{X: 0.4, Y: 0.3, Width: 0.2, Height: 0.4}
	cx, cy := box.Center()
	if cx != 0.5 || cy != 0.5 {
		t.Errorf("Center = (%v, %v), want (0.5, 0.5)", cx, cy)
	}
	if area := box.Area(); area < 0.079 || area > 0.081 {
		t.Errorf("Area = %v, want 0.08", area)
	}

	face := FaceObservation{Landmarks: []Landmark{{Name: LandmarkLeftEye, X: 0.45, Y: 0.45}}}
	if _, ok := face.Eye(LandmarkLeftEye); !ok {
		t.Error("left eye landmark not found")
	}
	if _, ok := face.Eye(LandmarkRightEye); ok {
		t.Error("missing landmark reported present")
	}
}

func TestZeroTolerance(t *testing.T) {
	for _, sig := range []SignalType{
		SignalTabHidden, SignalFocusLost, SignalContextMenu,
		SignalClipboard, SignalEscapeKey, SignalDevTools,
	} {
		if !sig.ZeroTolerance() {
			t.Errorf("%s should be zero tolerance", sig)
		}
	}
	if SignalGazeAway.ZeroTolerance() {
		t.Error("gaze_away should accumulate, not terminate")
	}
}
