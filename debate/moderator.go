package debate

import (
	"context"
	"fmt"

	"github.com/c360studio/debateclub/debate/prompts"
	"github.com/c360studio/debateclub/llm"
)

// Moderator introduces the debate neutrally.
type Moderator struct {
	gen llm.Completer
}

// NewModerator creates a moderator backed by the given generator.
func NewModerator(gen llm.Completer) *Moderator {
	return &Moderator{gen: gen}
}

// Introduce produces the debate introduction from the topic and
// background. It does not touch rounds.
func (m *Moderator) Introduce(ctx context.Context, state *State) (Update, error) {
	resp, err := m.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.ModeratorSystem()},
			{Role: "user", Content: prompts.ModeratorUser(state.Topic, state.Background)},
		},
	})
	if err != nil {
		return Update{}, fmt.Errorf("generate introduction: %w", err)
	}

	intro := resp.Content
	return Update{Introduction: &intro}, nil
}
