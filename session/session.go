package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/c360studio/debateclub/debate"
	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/metrics"
	"github.com/c360studio/debateclub/research"
)

// DefaultTimeout is the wall-clock deadline for a full debate run.
const DefaultTimeout = 600 * time.Second

// Phase markers outside the normal event tags.
const (
	PhasePending = "pending"
	PhaseTimeout = "timeout"
)

// Config configures a streaming debate session.
type Config struct {
	// Topic is the debate topic. Required.
	Topic string

	// Background is topic context. When empty and Research is set, it is
	// looked up once at construction; lookup failure falls back to a
	// generic string and never aborts construction.
	Background string

	// MaxRounds is the number of argument rounds. Must be at least 1.
	MaxRounds int

	// Timeout bounds the whole run. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Generator produces all debate text. Required.
	Generator llm.Completer

	// FactChecker, Parser, ProName and ConName are passed through to the
	// debate engine and keep its defaults when unset.
	FactChecker debate.FactChecker
	Parser      debate.ScoreParser
	ProName     string
	ConName     string

	// Research supplies background material when Background is empty.
	Research research.Source

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session owns one background debate run. Its mutable fields are guarded
// by a single mutex; events flow through a thread-safe queue so poll and
// drain calls never block on the worker.
type Session struct {
	engine  *debate.Engine
	timeout time.Duration
	logger  *slog.Logger
	queue   eventQueue

	mu          sync.Mutex
	snapshot    *debate.State
	lastDiffed  *debate.State
	phase       string
	errMsg      string
	startTime   time.Time
	endTime     time.Time
	lastStageAt time.Time
	running     bool
	complete    bool
}

// New resolves background research and validates the configuration.
// Validation errors surface immediately; research failure does not.
func New(ctx context.Context, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Background == "" && cfg.Research != nil && cfg.Topic != "" {
		background, err := cfg.Research.Background(ctx, cfg.Topic)
		if err != nil {
			logger.Warn("Background research failed, using fallback",
				"topic", cfg.Topic,
				"error", err)
			background = research.FallbackBackground
		}
		cfg.Background = background
	}

	engine, err := debate.NewEngine(debate.Config{
		Topic:       cfg.Topic,
		Background:  cfg.Background,
		MaxRounds:   cfg.MaxRounds,
		Generator:   cfg.Generator,
		FactChecker: cfg.FactChecker,
		Parser:      cfg.Parser,
		ProName:     cfg.ProName,
		ConName:     cfg.ConName,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Session{
		engine:   engine,
		timeout:  timeout,
		logger:   logger,
		snapshot: engine.State().Clone(),
		phase:    PhasePending,
	}, nil
}

// StartAsync begins the run on a background worker. Calling it while a
// run is active, or after completion, does nothing.
func (s *Session) StartAsync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.complete {
		return
	}
	s.running = true
	s.startTime = time.Now()
	s.lastStageAt = s.startTime

	metrics.DebatesStarted.Inc()
	go s.run()
}

// run races the debate against the deadline. Every outcome sets the
// completion flag exactly once.
func (s *Session) run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.engine.Run(ctx, s.observe)
		done <- err
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		s.finish(err)
	case <-timer.C:
		cancel()
		s.finishTimeout()
	}
}

// observe receives a snapshot after each stage, diffs it against the
// last diffed snapshot, and publishes the resulting events.
func (s *Session) observe(stage debate.Stage, snapshot *debate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A timed-out session ignores stages from the unwinding worker.
	if s.complete {
		return
	}

	now := time.Now()
	metrics.StageDuration.WithLabelValues(string(stage)).Observe(now.Sub(s.lastStageAt).Seconds())
	s.lastStageAt = now

	events := diff(s.lastDiffed, snapshot)
	s.lastDiffed = snapshot
	s.snapshot = snapshot

	if len(events) == 0 {
		return
	}

	s.queue.push(events...)
	metrics.UpdatesEmitted.Add(float64(len(events)))
	s.phase = string(events[len(events)-1].Type)

	s.logger.Debug("Emitted updates",
		"stage", stage,
		"count", len(events),
		"phase", s.phase)
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return
	}
	s.complete = true
	s.running = false
	s.endTime = time.Now()

	if err != nil {
		s.errMsg = err.Error()
		metrics.DebatesCompleted.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("Debate failed", "error", err)
		return
	}

	metrics.DebatesCompleted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("Debate complete",
		"topic", s.snapshot.Topic,
		"winner", s.snapshot.Winner,
		"duration", s.endTime.Sub(s.startTime))
}

func (s *Session) finishTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return
	}
	s.complete = true
	s.running = false
	s.endTime = time.Now()
	s.phase = PhaseTimeout
	s.errMsg = fmt.Sprintf("debate timed out after %s", s.timeout)

	metrics.DebatesCompleted.WithLabelValues(metrics.OutcomeTimeout).Inc()
	s.logger.Warn("Debate timed out", "timeout", s.timeout)
}

// Status is a point-in-time view of the session for polling consumers.
type Status struct {
	Complete          bool    `json:"complete"`
	CurrentPhase      string  `json:"current_phase"`
	Error             string  `json:"error,omitempty"`
	Duration          float64 `json:"duration"`
	HasPendingUpdates bool    `json:"has_pending_updates"`
}

// PollStatus reports the session's current status. It never blocks.
func (s *Session) PollStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var duration float64
	switch {
	case s.startTime.IsZero():
	case s.complete:
		duration = s.endTime.Sub(s.startTime).Seconds()
	default:
		duration = time.Since(s.startTime).Seconds()
	}

	return Status{
		Complete:          s.complete,
		CurrentPhase:      s.phase,
		Error:             s.errMsg,
		Duration:          duration,
		HasPendingUpdates: s.queue.pending(),
	}
}

// DrainUpdates returns all events not yet delivered, oldest first. It
// never blocks; with nothing pending it returns an empty list.
func (s *Session) DrainUpdates() []Event {
	return s.queue.drain()
}

// IsComplete reports whether the run has finished for any reason.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Snapshot returns a copy of the most recently observed state.
func (s *Session) Snapshot() *debate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}
