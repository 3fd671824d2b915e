package model

import "time"

// SignalType identifies a proctoring signal source.
type SignalType string

// Zero-tolerance signals: each terminates the session immediately,
// bypassing the gaze warning counter.
const (
	SignalTabHidden   SignalType = "tab_hidden"
	SignalFocusLost   SignalType = "focus_lost"
	SignalContextMenu SignalType = "context_menu"
	SignalClipboard   SignalType = "clipboard_shortcut"
	SignalEscapeKey   SignalType = "escape_key"
	SignalDevTools    SignalType = "devtools_open"
)

// SignalGazeAway accumulates toward the warning limit instead of
// terminating outright.
const SignalGazeAway SignalType = "gaze_away"

// ZeroTolerance reports whether the signal terminates without warnings.
func (s SignalType) ZeroTolerance() bool {
	return s != SignalGazeAway
}

// ProctoringState tracks integrity monitoring for one session.
// Mutated only by the proctoring monitor.
type ProctoringState struct {
	WarningCount       int        `json:"warningCount" bson:"warningCount"`
	MaxWarnings        int        `json:"maxWarnings" bson:"maxWarnings"`
	LastWarningAt      time.Time  `json:"lastWarningAt,omitempty" bson:"lastWarningAt,omitempty"`
	ViolationStartedAt *time.Time `json:"violationStartedAt,omitempty" bson:"violationStartedAt,omitempty"`
	CurrentlyCompliant bool       `json:"currentlyCompliant" bson:"currentlyCompliant"`
	TerminatedBy       SignalType `json:"terminatedBy,omitempty" bson:"terminatedBy,omitempty"`
}

// Landmark is one facial landmark point in frame-relative coordinates.
type Landmark struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// FaceBox is a face bounding box in frame-relative [0,1] coordinates.
type FaceBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FaceObservation is one detected face with its landmarks.
type FaceObservation struct {
	Box       FaceBox    `json:"box"`
	Landmarks []Landmark `json:"landmarks"`
}

// Landmark names the gaze classifier looks for.
const (
	LandmarkLeftEye  = "leftEye"
	LandmarkRightEye = "rightEye"
)

// Eye returns the named landmark, if present.
func (f FaceObservation) Eye(name string) (Landmark, bool) {
	for _, lm := range f.Landmarks {
		if lm.Name == name {
			return lm, true
		}
	}
	return Landmark{}, false
}

// Center returns the box center in frame-relative coordinates.
func (b FaceBox) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area returns the fraction of the frame the box covers.
func (b FaceBox) Area() float64 {
	return b.Width * b.Height
}

// WindowMetrics is the latest client-reported viewport geometry, used by
// the devtools-open heuristic.
type WindowMetrics struct {
	InnerWidth  int       `json:"innerWidth"`
	InnerHeight int       `json:"innerHeight"`
	OuterWidth  int       `json:"outerWidth"`
	OuterHeight int       `json:"outerHeight"`
	ReportedAt  time.Time `json:"reportedAt"`
}
