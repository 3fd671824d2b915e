package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vinaythanay/Interview-ChatBOt/internal/cache"
	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
	"github.com/vinaythanay/Interview-ChatBOt/internal/repository"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager creates interview sessions and routes events to their
// orchestrators. Each session gets its own orchestrator, question engine
// circuit state and proctoring monitor.
type SessionManager struct {
	mu            sync.RWMutex
	orchestrators map[string]*Orchestrator

	client    QuestionClient
	coding    *CodingController
	reports   *ReportService
	sessions  repository.SessionRepository
	history   repository.HistoryRepository
	sessCache cache.SessionCache
	insights  cache.InsightCache
	cfg       *config.InterviewConfig

	broadcaster Broadcaster
}

// NewSessionManager creates the manager.
func NewSessionManager(client QuestionClient, coding *CodingController, reports *ReportService,
	sessions repository.SessionRepository, history repository.HistoryRepository,
	sessCache cache.SessionCache, insights cache.InsightCache, cfg *config.InterviewConfig) *SessionManager {
	return &SessionManager{
		orchestrators: make(map[string]*Orchestrator),
		client:        client,
		coding:        coding,
		reports:       reports,
		sessions:      sessions,
		history:       history,
		sessCache:     sessCache,
		insights:      insights,
		cfg:           cfg,
	}
}

// SetBroadcaster wires the WebSocket hub in after construction.
func (m *SessionManager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// CreateSession starts a new interview session in SETUP.
func (m *SessionManager) CreateSession(ctx context.Context, candidate model.CandidateProfile) (*model.Session, error) {
	sess := &model.Session{
		ID:         uuid.New().String(),
		Phase:      model.PhaseSetup,
		Candidate:  candidate,
		Setup:      make(map[model.SetupStep]bool),
		Categories: model.NewEvaluationCategories(),
		Proctoring: model.ProctoringState{
			MaxWarnings:        m.cfg.MaxGazeWarnings,
			CurrentlyCompliant: true,
		},
	}

	if err := m.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	insightFn := func(msg string) {
		m.pushInsight(sess.ID, msg)
	}
	engine := NewQuestionEngine(m.client, NewFallbackGenerator(seed), m.cfg, insightFn)
	processor := NewAnswerProcessor(engine, NewScoreDeduplicator(seed), m.cfg.MaxQuestions)

	orch := NewOrchestrator(sess, OrchestratorDeps{
		Engine:      engine,
		Processor:   processor,
		Coding:      m.coding,
		Reports:     m.reports,
		Broadcaster: m.broadcaster,
		Sessions:    m.sessions,
		History:     m.history,
		SessCache:   m.sessCache,
		Insights:    m.insights,
		Config:      m.cfg,
	})

	m.mu.Lock()
	m.orchestrators[sess.ID] = orch
	m.mu.Unlock()

	orch.Start()
	log.Printf("[SessionManager] Created session %s for %q", sess.ID, candidate.Name)
	return sess, nil
}

// AttachMonitor wires a proctoring monitor for the session once its
// WebSocket signal sources are connected.
func (m *SessionManager) AttachMonitor(sessionID string, detector FaceDetector, metrics MetricsSource) (*ProctorMonitor, error) {
	orch, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	monitor := NewProctorMonitor(m.cfg, detector, metrics, orch.PhaseActive, orch.Dispatch)
	orch.SetMonitor(monitor)
	go monitor.Run(orch.Context())
	return monitor, nil
}

// Get returns the orchestrator for a session.
func (m *SessionManager) Get(sessionID string) (*Orchestrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orch, ok := m.orchestrators[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return orch, nil
}

// Dispatch routes an event to a session's orchestrator.
func (m *SessionManager) Dispatch(sessionID string, ev model.Event) error {
	orch, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	orch.Dispatch(ev)
	return nil
}

// Snapshot returns the current session state.
func (m *SessionManager) Snapshot(ctx context.Context, sessionID string) (*model.Session, error) {
	if orch, err := m.Get(sessionID); err == nil {
		sess := orch.Session()
		return &sess, nil
	}
	// Fall back to storage for sessions from before a restart.
	if cached, err := m.sessCache.Get(ctx, sessionID); err == nil && cached != nil {
		return cached, nil
	}
	sess, err := m.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// IsComplete reports whether a session already finished, so a reloading
// client can skip setup.
func (m *SessionManager) IsComplete(ctx context.Context, sessionID string) (bool, error) {
	return m.sessCache.IsComplete(ctx, sessionID)
}

func (m *SessionManager) pushInsight(sessionID, msg string) {
	entry := model.InsightEntry{At: time.Now(), Message: msg}
	if m.insights != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := m.insights.Push(ctx, sessionID, entry); err != nil {
			log.Printf("[SessionManager] Failed to push insight: %v", err)
		}
	}
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(sessionID, model.MsgInsight, entry)
	}
}

// RecentInsights returns the bounded operator feed for a session.
func (m *SessionManager) RecentInsights(ctx context.Context, sessionID string) ([]model.InsightEntry, error) {
	return m.insights.Recent(ctx, sessionID)
}
