package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

type stubQuestionClient struct {
	mu       sync.Mutex
	question string
	err      error
	calls    int
	block    chan struct{} // when set, GenerateQuestion waits on it
}

func (c *stubQuestionClient) GenerateQuestion(ctx context.Context, req QuestionRequest) (string, error) {
	c.mu.Lock()
	c.calls++
	block := c.block
	c.mu.Unlock()
	if block != nil {
		<-block
	}
	return c.question, c.err
}

func (c *stubQuestionClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestEngine(client QuestionClient, insight func(string)) *QuestionEngine {
	return NewQuestionEngine(client, NewFallbackGenerator(1), config.DefaultInterviewConfig(), insight)
}

func TestQuestionEngineRemoteSuccess(t *testing.T) {
	client := &stubQuestionClient{question: "What drew you to backend work?"}
	engine := newTestEngine(client, nil)
	qlog := model.NewQuestionLog()

	q, remote, ok := engine.NextQuestion(context.Background(), QuestionRequest{LastAnswer: "I like servers"}, qlog)
	if !ok {
		t.Fatal("NextQuestion returned ok=false with no call in flight")
	}
	if !remote {
		t.Error("expected remote=true on client success")
	}
	if q != "What drew you to backend work?" {
		t.Errorf("question = %q", q)
	}
	if !qlog.Asked(q) {
		t.Error("remote question was not recorded in the log")
	}
}

func TestQuestionEngineQuotaExhaustionIsSticky(t *testing.T) {
	client := &stubQuestionClient{err: ErrQuotaExhausted}
	var insights []string
	engine := newTestEngine(client, func(msg string) { insights = append(insights, msg) })
	qlog := model.NewQuestionLog()

	base := time.Now()
	clock := base
	engine.SetClock(func() time.Time { return clock })

	for i := 0; i < 3; i++ {
		q, remote, ok := engine.NextQuestion(context.Background(), QuestionRequest{LastAnswer: "an answer about my project work"}, qlog)
		if !ok || remote {
			t.Fatalf("call %d: ok=%v remote=%v, want fallback", i, ok, remote)
		}
		if q == "" {
			t.Fatalf("call %d: empty fallback question", i)
		}
		// Even hours later the network path stays closed.
		clock = clock.Add(time.Hour)
	}

	if got := client.callCount(); got != 1 {
		t.Errorf("client called %d times, want 1 (quota exhaustion is permanent)", got)
	}
	if len(insights) == 0 {
		t.Error("expected an insight about quota exhaustion")
	}
}

func TestQuestionEngineErrorDebounce(t *testing.T) {
	client := &stubQuestionClient{err: errors.New("upstream 500")}
	engine := newTestEngine(client, nil)
	qlog := model.NewQuestionLog()

	base := time.Now()
	clock := base
	engine.SetClock(func() time.Time { return clock })

	req := QuestionRequest{LastAnswer: "a long answer about databases and sql tuning"}
	engine.NextQuestion(context.Background(), req, qlog)
	if got := client.callCount(); got != 1 {
		t.Fatalf("client called %d times after first failure, want 1", got)
	}

	// Within the debounce window the remote path is skipped.
	clock = base.Add(5 * time.Second)
	engine.NextQuestion(context.Background(), req, qlog)
	if got := client.callCount(); got != 1 {
		t.Errorf("client called %d times inside debounce window, want 1", got)
	}

	// Past the window it is retried.
	clock = base.Add(15 * time.Second)
	engine.NextQuestion(context.Background(), req, qlog)
	if got := client.callCount(); got != 2 {
		t.Errorf("client called %d times after debounce expired, want 2", got)
	}
}

func TestQuestionEngineNotConfiguredFallsBack(t *testing.T) {
	client := &stubQuestionClient{err: ErrNotConfigured}
	var insights []string
	engine := newTestEngine(client, func(msg string) { insights = append(insights, msg) })
	qlog := model.NewQuestionLog()

	q, remote, ok := engine.NextQuestion(context.Background(), QuestionRequest{LastAnswer: "short"}, qlog)
	if !ok || remote {
		t.Fatalf("ok=%v remote=%v, want local fallback", ok, remote)
	}
	if q == "" {
		t.Fatal("empty fallback question")
	}
	if len(insights) != 1 {
		t.Fatalf("insights = %v, want one entry", insights)
	}
}

func TestQuestionEngineSingleInFlight(t *testing.T) {
	client := &stubQuestionClient{question: "slow question", block: make(chan struct{})}
	engine := newTestEngine(client, nil)
	qlog := model.NewQuestionLog()

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		engine.NextQuestion(context.Background(), QuestionRequest{LastAnswer: "first"}, qlog)
		close(done)
	}()
	<-started
	// Wait for the goroutine to take the in-flight slot.
	deadline := time.After(time.Second)
	for !engine.InFlight() {
		select {
		case <-deadline:
			t.Fatal("first call never became in-flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, _, ok := engine.NextQuestion(context.Background(), QuestionRequest{LastAnswer: "second"}, qlog); ok {
		t.Error("second concurrent call returned ok=true, want coalesced ok=false")
	}

	close(client.block)
	<-done
	if engine.InFlight() {
		t.Error("engine still in flight after call finished")
	}
}
