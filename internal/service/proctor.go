package service

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// FaceDetector returns the current face observations, or none if the
// camera feed has no detectable face right now.
type FaceDetector interface {
	Detect() []model.FaceObservation
}

// MetricsSource returns the latest client-reported window geometry.
type MetricsSource interface {
	WindowMetrics() (model.WindowMetrics, bool)
}

// ProctorMonitor samples integrity signals on independent cadences and
// emits warning/violation events. Zero-tolerance signals terminate
// immediately; gaze deviations accumulate through a debounced,
// rate-limited warning counter.
type ProctorMonitor struct {
	cfg      *config.InterviewConfig
	detector FaceDetector
	metrics  MetricsSource

	// active gates sampling to the QUESTIONING/CODING phases.
	active func() bool
	emit   func(model.Event)
	now    func() time.Time

	mu              sync.Mutex
	warningCount    int
	violationStart  *time.Time
	lastWarningAt   time.Time
	devToolsWasOpen bool
	stopped         bool
}

// NewProctorMonitor creates a proctoring monitor. emit receives
// ProctorWarning and ProctorViolation events; active reports whether the
// session is currently in a proctored phase.
func NewProctorMonitor(cfg *config.InterviewConfig, detector FaceDetector, metrics MetricsSource, active func() bool, emit func(model.Event)) *ProctorMonitor {
	return &ProctorMonitor{
		cfg:      cfg,
		detector: detector,
		metrics:  metrics,
		active:   active,
		emit:     emit,
		now:      time.Now,
	}
}

// SetClock overrides the monitor clock. Test hook.
func (m *ProctorMonitor) SetClock(now func() time.Time) {
	m.now = now
}

// Run drives the gaze and devtools sampling loops until ctx is done.
func (m *ProctorMonitor) Run(ctx context.Context) {
	gaze := time.NewTicker(m.cfg.GazeSampleInterval)
	devtools := time.NewTicker(m.cfg.DevToolsPollEvery)
	defer gaze.Stop()
	defer devtools.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gaze.C:
			m.SampleGaze()
		case <-devtools.C:
			m.PollDevTools()
		}
	}
}

// Stop permanently silences the monitor. Called on termination so no
// event can surface afterwards.
func (m *ProctorMonitor) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

// WarningCount returns the cumulative gaze warning count.
func (m *ProctorMonitor) WarningCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warningCount
}

// HandleSignal processes an event-driven client signal. Every signal type
// except gaze is zero-tolerance.
func (m *ProctorMonitor) HandleSignal(sig model.SignalType, detail string) {
	if !m.runnable() {
		return
	}
	if sig.ZeroTolerance() {
		log.Printf("[Proctor] Zero-tolerance signal %s: %s", sig, detail)
		m.emit(model.ProctorViolation{Signal: sig, Detail: detail})
	}
}

// SampleGaze takes one gaze sample and applies the debounce, rate-limit
// and warning-count policy.
func (m *ProctorMonitor) SampleGaze() {
	if !m.runnable() {
		return
	}
	looking := m.classifyLooking(m.detector.Detect())
	now := m.now()

	m.mu.Lock()
	if looking {
		// A compliant sample resets the continuous timer, never the
		// cumulative counter.
		m.violationStart = nil
		m.mu.Unlock()
		return
	}

	if m.violationStart == nil {
		t := now
		m.violationStart = &t
		m.mu.Unlock()
		return
	}

	if now.Sub(*m.violationStart) < m.cfg.GazeDebounce {
		m.mu.Unlock()
		return
	}
	if now.Sub(m.lastWarningAt) < m.cfg.WarningRateLimit {
		m.mu.Unlock()
		return
	}

	m.warningCount++
	m.lastWarningAt = now
	count := m.warningCount
	max := m.cfg.MaxGazeWarnings
	m.mu.Unlock()

	log.Printf("[Proctor] Gaze warning %d/%d", count, max)
	if count >= max {
		m.emit(model.ProctorViolation{Signal: model.SignalGazeAway, Detail: "gaze warning limit reached"})
		return
	}
	m.emit(model.ProctorWarning{Count: count, Max: max})
}

// PollDevTools checks the viewport delta heuristic. Edge-triggered: fires
// only on the closed-to-open transition.
func (m *ProctorMonitor) PollDevTools() {
	if !m.runnable() {
		return
	}
	wm, ok := m.metrics.WindowMetrics()
	if !ok {
		return
	}

	open := wm.OuterWidth-wm.InnerWidth > m.cfg.DevToolsDeltaPx ||
		wm.OuterHeight-wm.InnerHeight > m.cfg.DevToolsDeltaPx

	m.mu.Lock()
	fire := open && !m.devToolsWasOpen
	m.devToolsWasOpen = open
	m.mu.Unlock()

	if fire {
		log.Printf("[Proctor] DevTools heuristic triggered (%dx%d outer vs %dx%d inner)",
			wm.OuterWidth, wm.OuterHeight, wm.InnerWidth, wm.InnerHeight)
		m.emit(model.ProctorViolation{Signal: model.SignalDevTools, Detail: "viewport delta exceeded threshold"})
	}
}

// classifyLooking reports whether any observed face counts as attending:
// both eye landmarks present, box covering at least the minimum frame
// area, and box center within the tolerance band of frame center.
func (m *ProctorMonitor) classifyLooking(faces []model.FaceObservation) bool {
	for _, face := range faces {
		if face.Box.Area() < m.cfg.MinFaceArea {
			continue
		}
		if _, ok := face.Eye(model.LandmarkLeftEye); !ok {
			continue
		}
		if _, ok := face.Eye(model.LandmarkRightEye); !ok {
			continue
		}
		cx, cy := face.Box.Center()
		if math.Abs(cx-0.5) > m.cfg.GazeCenterTolerance || math.Abs(cy-0.5) > m.cfg.GazeCenterTolerance {
			continue
		}
		return true
	}
	return false
}

func (m *ProctorMonitor) runnable() bool {
	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()
	return !stopped && m.active()
}
