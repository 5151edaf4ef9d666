package debate

import (
	"context"
	"fmt"

	"github.com/c360studio/debateclub/debate/prompts"
	"github.com/c360studio/debateclub/llm"
)

// Judge evaluates the finished debate and determines a winner.
type Judge struct {
	gen    llm.Completer
	parser ScoreParser
}

// NewJudge creates a judge. A nil parser uses the default regex parser.
func NewJudge(gen llm.Completer, parser ScoreParser) *Judge {
	if parser == nil {
		parser = NewRegexScoreParser()
	}
	return &Judge{gen: gen, parser: parser}
}

// Evaluate consumes the topic, all rounds and both conclusions, and
// produces the free-text evaluation plus parsed scores and winner.
func (j *Judge) Evaluate(ctx context.Context, state *State) (Update, error) {
	resp, err := j.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.JudgeSystem(state.Topic, FormatTranscript(state))},
			{Role: "user", Content: prompts.JudgeUser()},
		},
	})
	if err != nil {
		return Update{}, fmt.Errorf("evaluate debate: %w", err)
	}

	evaluation := resp.Content
	scores := j.parser.Parse(evaluation)

	return Update{
		Evaluation: &evaluation,
		Winner:     &scores.Winner,
		ProScore:   &scores.Pro,
		ConScore:   &scores.Con,
	}, nil
}
