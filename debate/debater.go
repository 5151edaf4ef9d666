package debate

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/c360studio/debateclub/debate/prompts"
	"github.com/c360studio/debateclub/llm"
)

// Persona pools for debater names, matching the house tradition of naming
// debaters after philosophers.
var (
	proPersonas = []string{"Socrates", "Aristotle", "Plato", "Kant", "Locke"}
	conPersonas = []string{"Nietzsche", "Hume", "Russell", "Rousseau", "Mill"}
)

// PersonaFor picks a random persona name for a side, e.g. "Pro-Socrates".
func PersonaFor(side Side) string {
	if side == SidePro {
		return "Pro-" + proPersonas[rand.Intn(len(proPersonas))]
	}
	return "Con-" + conPersonas[rand.Intn(len(conPersonas))]
}

// Debater argues one side of the topic across rounds and delivers a
// closing statement.
type Debater struct {
	gen  llm.Completer
	name string
	side Side
}

// NewDebater creates a debater for a side. An empty name gets a random
// persona.
func NewDebater(gen llm.Completer, side Side, name string) *Debater {
	if name == "" {
		name = PersonaFor(side)
	}
	return &Debater{gen: gen, name: name, side: side}
}

// Name returns the debater's persona name.
func (d *Debater) Name() string {
	return d.name
}

// Side returns the debater's side.
func (d *Debater) Side() Side {
	return d.side
}

// Argument generates this side's argument for the current round. If the
// current round has no record yet, an empty one is appended first. Prior
// rounds' arguments are rendered into the prompt for context; round one
// has none.
func (d *Debater) Argument(ctx context.Context, state *State) (Update, error) {
	round := state.CurrentRound

	rounds := make([]Round, len(state.Rounds))
	copy(rounds, state.Rounds)
	if round >= len(rounds) {
		rounds = append(rounds, Round{})
	}

	prior := state.Rounds
	if round < len(prior) {
		prior = prior[:round]
	}

	resp, err := d.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.ArgumentSystem(
				d.name, string(d.side), state.Topic, round+1,
				state.Background, FormatPriorRounds(prior))},
			{Role: "user", Content: prompts.ArgumentUser(string(d.side), state.Topic, round+1)},
		},
	})
	if err != nil {
		return Update{}, fmt.Errorf("%s argument round %d: %w", d.side, round+1, err)
	}

	if d.side == SidePro {
		rounds[round].ProArgument = resp.Content
	} else {
		rounds[round].ConArgument = resp.Content
	}

	return Update{Rounds: rounds}, nil
}

// Conclusion generates this side's closing statement from the full round
// history.
func (d *Debater) Conclusion(ctx context.Context, state *State) (Update, error) {
	resp, err := d.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.ConclusionSystem(
				d.name, string(d.side), state.Topic, FormatPriorRounds(state.Rounds))},
			{Role: "user", Content: prompts.ConclusionUser(string(d.side), state.Topic)},
		},
	})
	if err != nil {
		return Update{}, fmt.Errorf("%s conclusion: %w", d.side, err)
	}

	content := resp.Content
	if d.side == SidePro {
		return Update{ProConclusion: &content}, nil
	}
	return Update{ConConclusion: &content}, nil
}
