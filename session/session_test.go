package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/debateclub/debate"
	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/llm/testutil"
	"github.com/c360studio/debateclub/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptedGenerator() *testutil.MockCompleter {
	return &testutil.MockCompleter{
		Script: func(req llm.Request) (*llm.Response, error) {
			system := req.Messages[0].Content
			switch {
			case strings.Contains(system, "debate moderator"):
				return &llm.Response{Content: "Welcome. Let the debate begin."}, nil
			case strings.Contains(system, "fact-checker"):
				return &llm.Response{Content: "No false claims found."}, nil
			case strings.Contains(system, "closing statement"):
				return &llm.Response{Content: "In closing, our side prevails."}, nil
			case strings.Contains(system, "debate judge"):
				return &llm.Response{Content: "Detailed analysis. Pro: 82 points. Con: 75 points."}, nil
			default:
				return &llm.Response{Content: "A compelling argument."}, nil
			}
		},
	}
}

// blockingCompleter never answers until its context is cancelled.
type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type failingSource struct{}

func (failingSource) Background(context.Context, string) (string, error) {
	return "", errors.New("lookup unavailable")
}

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return s
}

func waitComplete(t *testing.T, s *Session) {
	t.Helper()
	require.Eventually(t, s.IsComplete, 10*time.Second, 5*time.Millisecond)
}

func TestNewValidation(t *testing.T) {
	var vErr *debate.ValidationError

	_, err := New(context.Background(), Config{MaxRounds: 1, Generator: scriptedGenerator()})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "topic", vErr.Field)

	_, err = New(context.Background(), Config{Topic: "t", MaxRounds: 1})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "generator", vErr.Field)
}

func TestNewResearchFallback(t *testing.T) {
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
		Research:  failingSource{},
	})
	assert.Equal(t, research.FallbackBackground, s.Snapshot().Background)

	s = newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
		Research:  research.StaticSource{Text: "some background"},
	})
	assert.Equal(t, "some background", s.Snapshot().Background)
}

func TestSessionTimeout(t *testing.T) {
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: blockingCompleter{},
		Timeout:   50 * time.Millisecond,
	})

	s.StartAsync()
	waitComplete(t, s)

	status := s.PollStatus()
	assert.True(t, status.Complete)
	assert.Equal(t, PhaseTimeout, status.CurrentPhase)
	assert.Contains(t, status.Error, "timed out")
}

func TestSessionDrainIdempotent(t *testing.T) {
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
	})

	s.StartAsync()
	waitComplete(t, s)

	first := s.DrainUpdates()
	assert.NotEmpty(t, first)
	assert.Empty(t, s.DrainUpdates())
	assert.Empty(t, s.DrainUpdates())

	status := s.PollStatus()
	assert.True(t, status.Complete)
	assert.False(t, status.HasPendingUpdates)
	assert.Empty(t, status.Error)
}

func TestSessionEventSequence(t *testing.T) {
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 2,
		Generator: scriptedGenerator(),
	})

	s.StartAsync()
	waitComplete(t, s)

	events := s.DrainUpdates()

	type key struct {
		tag   Tag
		round int
	}
	want := []key{
		{TagIntroduction, 0},
		{TagProArgument, 1}, {TagProFactCheck, 1}, {TagConArgument, 1}, {TagConFactCheck, 1},
		{TagProArgument, 2}, {TagProFactCheck, 2}, {TagConArgument, 2}, {TagConFactCheck, 2},
		{TagProConclusion, 0}, {TagConConclusion, 0},
		{TagEvaluation, 0},
	}

	require.Len(t, events, len(want))
	seen := make(map[key]bool)
	for i, event := range events {
		k := key{event.Type, event.Round}
		assert.Equal(t, want[i], k, "event %d", i)
		assert.False(t, seen[k], "duplicate event %v", k)
		seen[k] = true
		assert.NotEmpty(t, event.Content)
	}

	final := events[len(events)-1]
	assert.Contains(t, []debate.Winner{debate.WinnerPro, debate.WinnerCon, debate.WinnerTie}, final.Winner)
	require.NotNil(t, final.ProScore)
	require.NotNil(t, final.ConScore)
	assert.GreaterOrEqual(t, *final.ProScore, 0)
	assert.GreaterOrEqual(t, *final.ConScore, 0)

	assert.Equal(t, string(TagEvaluation), s.PollStatus().CurrentPhase)
}

func TestSessionIncrementalDelivery(t *testing.T) {
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
	})

	s.StartAsync()
	waitComplete(t, s)

	// Events accumulate per stage, so a completed 1-round run holds the
	// full sequence even though each event was queued incrementally.
	events := s.DrainUpdates()
	require.Len(t, events, 8)
	assert.Equal(t, TagIntroduction, events[0].Type)
	assert.Equal(t, TagEvaluation, events[len(events)-1].Type)
}

func TestSessionStartAsyncTwice(t *testing.T) {
	gen := scriptedGenerator()
	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: gen,
	})

	s.StartAsync()
	s.StartAsync()
	waitComplete(t, s)

	// One 1-round run: moderator, pro argument, pro fact check, con
	// argument, con fact check, two conclusions, judge.
	assert.Equal(t, 8, gen.CallCount())

	// Starting after completion is also ignored.
	s.StartAsync()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 8, gen.CallCount())
}

func TestSessionExecutionError(t *testing.T) {
	gen := &testutil.MockCompleter{
		Script: func(req llm.Request) (*llm.Response, error) {
			system := req.Messages[0].Content
			if strings.Contains(system, "debate moderator") {
				return &llm.Response{Content: "Welcome."}, nil
			}
			return nil, llm.NewFatalError(errors.New("model rejected request"))
		},
	}

	s := newSession(t, Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: gen,
	})

	s.StartAsync()
	waitComplete(t, s)

	status := s.PollStatus()
	assert.True(t, status.Complete)
	assert.Contains(t, status.Error, "model rejected request")
	assert.NotEqual(t, PhaseTimeout, status.CurrentPhase)

	// The stages that ran before the failure still produced events.
	events := s.DrainUpdates()
	require.NotEmpty(t, events)
	assert.Equal(t, TagIntroduction, events[0].Type)
}

func TestManager(t *testing.T) {
	m := NewManager()

	id, s, err := m.Create(context.Background(), Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	id2, _, err := m.Create(context.Background(), Config{
		Topic:     "Should Y?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
	})
	require.NoError(t, err)

	infos := m.List()
	require.Len(t, infos, 2)
	ids := []string{infos[0].ID, infos[1].ID}
	assert.Contains(t, ids, id)
	assert.Contains(t, ids, id2)
}
