package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/cache"
	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
	"github.com/vinaythanay/Interview-ChatBOt/internal/repository"
)

const (
	initialQuestion = "Hello! Welcome to the interview. Let's start with a simple introduction. Can you tell me about yourself?"

	codingIntro = "Great! We've completed the initial questions. Now let's move on to the coding section where you'll solve some programming problems."
	codingOutro = "Excellent! You've completed the coding section. Let me prepare your performance report."
)

// Broadcaster pushes outbound messages to a session's WebSocket clients.
type Broadcaster interface {
	Broadcast(sessionID, msgType string, payload interface{})
}

// Orchestrator is the per-session state machine. Every external and
// internal happening funnels through Dispatch under one lock; once the
// session reaches a terminal phase, Dispatch drops everything, which is
// what guarantees no stale async result can surface afterwards.
type Orchestrator struct {
	mu   sync.Mutex
	sess *model.Session
	qlog *model.QuestionLog

	engine    *QuestionEngine
	processor *AnswerProcessor
	coding    *CodingController
	reports   *ReportService
	monitor   *ProctorMonitor

	broadcaster Broadcaster
	sessions    repository.SessionRepository
	history     repository.HistoryRepository
	sessCache   cache.SessionCache
	insights    cache.InsightCache

	cfg *config.InterviewConfig
	now func() time.Time

	genSeq   uint64
	paused   bool
	pausedAt time.Time

	bg     context.Context
	cancel context.CancelFunc
}

// OrchestratorDeps bundles the collaborators an orchestrator needs.
type OrchestratorDeps struct {
	Engine      *QuestionEngine
	Processor   *AnswerProcessor
	Coding      *CodingController
	Reports     *ReportService
	Broadcaster Broadcaster
	Sessions    repository.SessionRepository
	History     repository.HistoryRepository
	SessCache   cache.SessionCache
	Insights    cache.InsightCache
	Config      *config.InterviewConfig
}

// NewOrchestrator creates an orchestrator for a fresh session.
func NewOrchestrator(sess *model.Session, deps OrchestratorDeps) *Orchestrator {
	bg, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		sess:        sess,
		qlog:        model.NewQuestionLog(),
		engine:      deps.Engine,
		processor:   deps.Processor,
		coding:      deps.Coding,
		reports:     deps.Reports,
		broadcaster: deps.Broadcaster,
		sessions:    deps.Sessions,
		history:     deps.History,
		sessCache:   deps.SessCache,
		insights:    deps.Insights,
		cfg:         deps.Config,
		now:         time.Now,
		bg:          bg,
		cancel:      cancel,
	}
}

// SetClock overrides the orchestrator clock. Test hook.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// SetMonitor attaches the proctoring monitor after construction, since
// the monitor's phase gate closes over the orchestrator.
func (o *Orchestrator) SetMonitor(m *ProctorMonitor) {
	o.monitor = m
}

// Session returns a snapshot copy of the session state.
func (o *Orchestrator) Session() model.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.sess
}

// PhaseActive reports whether proctoring signals currently apply.
func (o *Orchestrator) PhaseActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sess.Phase.Active() && !o.paused
}

// Start launches the periodic end-check loop. The proctoring monitor runs
// on its own via the same derived context.
func (o *Orchestrator) Start() {
	go func() {
		ticker := time.NewTicker(o.cfg.EndCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-o.bg.Done():
				return
			case <-ticker.C:
				o.Dispatch(model.Tick{At: o.now()})
			}
		}
	}()
	if o.monitor != nil {
		go o.monitor.Run(o.bg)
	}
}

// Context returns the orchestrator's background context, cancelled on
// termination. Async work tied to the session derives from it.
func (o *Orchestrator) Context() context.Context {
	return o.bg
}

// Dispatch applies one event to the state machine.
func (o *Orchestrator) Dispatch(ev model.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess.Phase.Terminal() {
		return
	}

	switch e := ev.(type) {
	case model.SetupStepCompleted:
		o.handleSetupStep(e)
	case model.AnswerSubmitted:
		o.handleAnswer(e)
	case model.QuestionReady:
		o.handleQuestionReady(e)
	case model.CodeSubmitted:
		o.handleCodeSubmitted(e)
	case model.CodingSkipped:
		o.handleCodingSkipped()
	case model.ProctorWarning:
		o.handleProctorWarning(e)
	case model.ProctorViolation:
		o.terminate(model.PhaseTerminatedViolation, string(e.Signal)+": "+e.Detail)
	case model.Tick:
		o.handleTick(e)
	case model.Paused:
		o.handlePause()
	case model.Resumed:
		o.handleResume(e)
	case model.StageAcknowledged:
		o.handleStageAck(e)
	}

	o.persist()
}

func (o *Orchestrator) handleSetupStep(e model.SetupStepCompleted) {
	if o.sess.Phase != model.PhaseSetup {
		return
	}
	o.sess.Setup[e.Step] = e.OK
	if !e.OK {
		// Retryable; counters untouched.
		o.broadcast(model.MsgError, "Setup step failed: "+string(e.Step)+". Please retry.")
		return
	}
	if !o.sess.SetupComplete() {
		return
	}

	o.setPhase(model.PhaseGreeting)
	o.sess.StartedAt = o.now()
	o.addInsight("Interview started. AI dialogue and tracking are live.")

	o.setPhase(model.PhaseQuestioning)
	o.qlog.Record(initialQuestion)
	o.sess.LastPrompt = initialQuestion
	o.sess.CurrentQuestionIndex++
	o.say(initialQuestion)
}

func (o *Orchestrator) handleAnswer(e model.AnswerSubmitted) {
	if o.sess.Phase != model.PhaseQuestioning || o.paused {
		if o.sess.Phase == model.PhaseCoding {
			o.addInsight("Please use the coding interface to submit your solutions.")
		}
		return
	}

	result := o.processor.Process(o.sess, e.Text, e.Source)
	if result.Deflection != "" {
		o.addInsight(result.DropReason)
		o.say(result.Deflection)
		return
	}
	if !result.Accepted {
		o.addInsight(result.DropReason)
		return
	}

	o.appendHistory(result.Entry)
	o.broadcast(model.MsgProgress, model.ProgressPayload{
		AnsweredCount:       o.sess.AnsweredCount,
		CodingQuestionCount: o.sess.CodingQuestionCount,
		Phase:               o.sess.Phase,
	})

	text := strings.ToLower(e.Text)
	switch {
	case strings.Contains(text, "end interview"):
		o.finishToReport()
	case o.sess.AnsweredCount >= o.cfg.MaxQuestions:
		o.startCodingSection()
	case o.shouldEnd():
		o.finishToReport()
	default:
		o.generateNextQuestion(e.Text)
	}
	o.sess.CurrentQuestionIndex++
}

func (o *Orchestrator) handleQuestionReady(e model.QuestionReady) {
	if e.Seq != o.genSeq || o.sess.Phase != model.PhaseQuestioning {
		log.Printf("[Orchestrator] Discarding stale question result (seq %d)", e.Seq)
		return
	}
	o.sess.LastPrompt = e.Question
	o.say(e.Question)
}

func (o *Orchestrator) handleCodeSubmitted(e model.CodeSubmitted) {
	if o.sess.Phase != model.PhaseCoding || o.paused {
		return
	}

	language := o.sess.CodingLanguage
	details := o.coding.ScoreSubmission(language, e.Code, e.Executed, e.ExecSucceeded)
	entry := o.processor.RecordCoding(o.sess, o.coding.CategoryFor(language), e.Code, details)
	o.appendHistory(entry)

	o.sess.CodingQuestionCount++
	o.addInsight("Submitted " + strings.ToUpper(language) + " coding solution.")
	o.say("Thank you for submitting your " + strings.ToUpper(language) + " solution.")

	if o.sess.CodingQuestionCount < o.cfg.MaxCodingQuestions && !o.shouldEnd() {
		o.sess.CodingLanguage = o.coding.NextLanguage(language)
		o.askCodingQuestion()
		return
	}

	o.say(codingOutro)
	o.finishToReport()
}

func (o *Orchestrator) handleCodingSkipped() {
	if o.sess.Phase != model.PhaseCoding {
		return
	}
	o.addInsight("Candidate skipped the coding section.")
	o.finishToReport()
}

func (o *Orchestrator) handleProctorWarning(e model.ProctorWarning) {
	o.sess.Proctoring.WarningCount = e.Count
	o.sess.Proctoring.MaxWarnings = e.Max
	o.sess.Proctoring.LastWarningAt = o.now()
	o.addInsight("Gaze warning issued.")
	o.broadcast(model.MsgProctorWarning, map[string]int{"count": e.Count, "max": e.Max})
}

func (o *Orchestrator) handleTick(e model.Tick) {
	if !o.sess.Phase.Active() || o.paused {
		return
	}
	if o.shouldEnd() {
		o.addInsight("Time limit reached, ending interview.")
		o.finishToReport()
	}
}

func (o *Orchestrator) handlePause() {
	if !o.sess.Phase.Active() || o.paused {
		return
	}
	o.paused = true
	o.pausedAt = o.now()
	o.addInsight("Interview paused.")
}

func (o *Orchestrator) handleResume(e model.Resumed) {
	if !o.paused {
		return
	}
	if !e.MediaOK {
		// Stay paused; the candidate retries after fixing their devices.
		o.broadcast(model.MsgError, "Could not reacquire camera or microphone. Please check permissions and try again.")
		return
	}
	o.paused = false
	o.sess.TotalPausedDuration += o.now().Sub(o.pausedAt)
	o.addInsight("Interview resumed.")
	if o.sess.LastPrompt != "" {
		o.say("Resuming. " + o.sess.LastPrompt)
	}
}

func (o *Orchestrator) handleStageAck(e model.StageAcknowledged) {
	switch {
	case o.sess.Phase == model.PhaseReporting && e.Stage == "report":
		o.setPhase(model.PhaseFeedback)
	case o.sess.Phase == model.PhaseFeedback && e.Stage == "feedback":
		o.endNormally()
	}
}

// shouldEnd is the end-of-interview guard, checked after each answer and
// on the periodic tick.
func (o *Orchestrator) shouldEnd() bool {
	total := o.sess.AnsweredCount + o.sess.CodingQuestionCount
	if total >= o.cfg.MaxQuestions+o.cfg.MaxCodingQuestions {
		return true
	}
	return o.sess.Elapsed(o.now()) >= o.cfg.MaxDuration
}

func (o *Orchestrator) startCodingSection() {
	o.setPhase(model.PhaseTransitioningCoding)
	o.say(codingIntro)
	o.addInsight("Transitioning to coding section...")

	o.setPhase(model.PhaseCoding)
	o.sess.CodingLanguage = o.coding.FirstLanguage()
	o.askCodingQuestion()
}

func (o *Orchestrator) askCodingQuestion() {
	q := o.coding.Question(o.sess.CodingLanguage, o.sess.CodingQuestionCount)
	o.broadcast(model.MsgCodingQuestion, q)
}

// generateNextQuestion kicks off async generation. The sequence number
// taken here is compared on completion; a terminated or superseded
// generation is discarded by handleQuestionReady.
func (o *Orchestrator) generateNextQuestion(lastAnswer string) {
	o.genSeq++
	seq := o.genSeq
	req := QuestionRequest{LastAnswer: lastAnswer, QuestionNumber: o.sess.CurrentQuestionIndex}

	go func() {
		question, _, ok := o.engine.NextQuestion(o.bg, req, o.qlog)
		if !ok {
			return
		}
		o.Dispatch(model.QuestionReady{Question: question, Seq: seq})
	}()
}

func (o *Orchestrator) finishToReport() {
	o.setPhase(model.PhaseReporting)
	now := o.now()
	o.sess.EndedAt = &now

	report := o.reports.Build(o.sess)
	ctx, cancelSave := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelSave()
	if err := o.reports.Save(ctx, report); err == nil {
		log.Printf("[Orchestrator] Report saved for session %s (overall %.1f)", o.sess.ID, report.OverallScore)
	}
	o.broadcast(model.MsgReportReady, report)
}

func (o *Orchestrator) endNormally() {
	o.setPhase(model.PhaseTerminatedNormal)
	o.shutdown("")
}

// terminate handles integrity violations: the reason is logged to the
// operator feed only, never shown verbatim to the candidate.
func (o *Orchestrator) terminate(phase model.Phase, reason string) {
	o.sess.Terminated = true
	o.sess.TerminationReason = reason
	now := o.now()
	o.sess.EndedAt = &now
	o.setPhase(phase)
	o.addInsight("Session terminated: " + reason)
	o.broadcast(model.MsgTerminated, map[string]string{
		"message": "The interview has been terminated due to an integrity policy violation.",
	})
	log.Printf("[Orchestrator] Session %s terminated: %s", o.sess.ID, reason)
	o.shutdown(reason)
}

// shutdown stops monitors and timers and cancels in-flight generation.
func (o *Orchestrator) shutdown(reason string) {
	if o.monitor != nil {
		o.monitor.Stop()
	}
	o.cancel()

	if o.sessCache != nil {
		ctx, cancelMark := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelMark()
		if err := o.sessCache.MarkComplete(ctx, o.sess.ID); err != nil {
			log.Printf("[Orchestrator] Failed to mark session complete: %v", err)
		}
	}
}

func (o *Orchestrator) setPhase(p model.Phase) {
	o.sess.Phase = p
	o.broadcast(model.MsgPhaseChange, string(p))
}

// say emits a bot chat line and mirrors it as the question payload so the
// client can vocalize it.
func (o *Orchestrator) say(text string) {
	o.broadcast(model.MsgChatMessage, model.ChatMessage{
		Sender:    "bot",
		Text:      text,
		Timestamp: o.now(),
	})
}

// AddInsight pushes an operator feed line from outside the lock.
func (o *Orchestrator) AddInsight(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addInsight(msg)
}

func (o *Orchestrator) addInsight(msg string) {
	entry := model.InsightEntry{At: o.now(), Message: msg}
	if o.insights != nil {
		ctx, cancelPush := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelPush()
		if err := o.insights.Push(ctx, o.sess.ID, entry); err != nil {
			log.Printf("[Orchestrator] Failed to push insight: %v", err)
		}
	}
	o.broadcast(model.MsgInsight, entry)
}

func (o *Orchestrator) appendHistory(entry *model.PerformanceEntry) {
	if o.history == nil || entry == nil {
		return
	}
	ctx, cancelAppend := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelAppend()
	if err := o.history.Append(ctx, entry); err != nil {
		log.Printf("[Orchestrator] Failed to append history entry: %v", err)
	}
}

func (o *Orchestrator) broadcast(msgType string, payload interface{}) {
	if o.broadcaster != nil {
		o.broadcaster.Broadcast(o.sess.ID, msgType, payload)
	}
}

// persist writes the session snapshot through cache and store.
func (o *Orchestrator) persist() {
	ctx, cancelPersist := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelPersist()

	if o.sessCache != nil {
		if err := o.sessCache.Set(ctx, o.sess); err != nil {
			log.Printf("[Orchestrator] Failed to cache session: %v", err)
		}
	}
	if o.sessions != nil {
		if err := o.sessions.Update(ctx, o.sess); err != nil {
			log.Printf("[Orchestrator] Failed to persist session: %v", err)
		}
	}
}
