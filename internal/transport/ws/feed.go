package ws

import (
	"sync"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// Frames older than this are treated as "camera dark" rather than served
// to the gaze sampler as a current observation.
const observationTTL = 5 * time.Second

// SignalFeed holds the latest client-reported face observations and
// window geometry for one session. The candidate readPump writes, the
// proctoring monitor reads; it implements service.FaceDetector and
// service.MetricsSource.
type SignalFeed struct {
	mu          sync.RWMutex
	faces       []model.FaceObservation
	facesAt     time.Time
	metrics     model.WindowMetrics
	haveMetrics bool
}

// NewSignalFeed creates an empty feed.
func NewSignalFeed() *SignalFeed {
	return &SignalFeed{}
}

// UpdateFaces stores the latest face detection result.
func (f *SignalFeed) UpdateFaces(faces []model.FaceObservation) {
	f.mu.Lock()
	f.faces = faces
	f.facesAt = time.Now()
	f.mu.Unlock()
}

// UpdateMetrics stores the latest window geometry.
func (f *SignalFeed) UpdateMetrics(m model.WindowMetrics) {
	f.mu.Lock()
	m.ReportedAt = time.Now()
	f.metrics = m
	f.haveMetrics = true
	f.mu.Unlock()
}

// Detect returns the current observations, or none if the feed is stale.
func (f *SignalFeed) Detect() []model.FaceObservation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Since(f.facesAt) > observationTTL {
		return nil
	}
	return f.faces
}

// WindowMetrics returns the latest reported geometry.
func (f *SignalFeed) WindowMetrics() (model.WindowMetrics, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.metrics, f.haveMetrics
}
