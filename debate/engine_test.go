package debate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/c360studio/debateclub/debate"
	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/llm/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator answers each stage with recognizable canned content,
// keyed off the system prompt.
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

func TestNewEngine_Validation(t *testing.T) {
	gen := scriptedGenerator()

	var vErr *debate.ValidationError

	_, err := debate.NewEngine(debate.Config{Topic: "", MaxRounds: 1, Generator: gen})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "topic", vErr.Field)

	_, err = debate.NewEngine(debate.Config{Topic: "t", MaxRounds: 0, Generator: gen})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "max_rounds", vErr.Field)

	_, err = debate.NewEngine(debate.Config{Topic: "t", MaxRounds: 1})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "generator", vErr.Field)
}

func TestEngine_Run_CompletesAllRounds(t *testing.T) {
	for _, maxRounds := range []int{1, 2, 3} {
		eng, err := debate.NewEngine(debate.Config{
			Topic:     "Should X?",
			MaxRounds: maxRounds,
			Generator: scriptedGenerator(),
		})
		require.NoError(t, err)

		final, err := eng.Run(context.Background(), nil)
		require.NoError(t, err)

		require.Len(t, final.Rounds, maxRounds)
		for i, round := range final.Rounds {
			assert.NotEmpty(t, round.ProArgument, "round %d", i+1)
			assert.NotEmpty(t, round.ProFactCheck, "round %d", i+1)
			assert.NotEmpty(t, round.ConArgument, "round %d", i+1)
			assert.NotEmpty(t, round.ConFactCheck, "round %d", i+1)
		}

		assert.Equal(t, maxRounds, final.CurrentRound, "current round never exceeds max rounds")
		assert.NotEmpty(t, final.Introduction)
		assert.NotEmpty(t, final.ProConclusion)
		assert.NotEmpty(t, final.ConConclusion)
		assert.NotEmpty(t, final.Evaluation)
		assert.Equal(t, debate.WinnerPro, final.Winner)
		assert.Equal(t, 82, final.ProScore)
		assert.Equal(t, 75, final.ConScore)
	}
}

func TestEngine_Run_ObserverSeesEveryStage(t *testing.T) {
	eng, err := debate.NewEngine(debate.Config{
		Topic:     "Should X?",
		MaxRounds: 2,
		Generator: scriptedGenerator(),
	})
	require.NoError(t, err)

	var stages []debate.Stage
	var roundAtStage []int

	_, err = eng.Run(context.Background(), func(stage debate.Stage, snapshot *debate.State) {
		stages = append(stages, stage)
		roundAtStage = append(roundAtStage, snapshot.CurrentRound)
	})
	require.NoError(t, err)

	want := []debate.Stage{
		debate.StageSetDebate,
		debate.StageProArgument, debate.StageProFactCheck,
		debate.StageConArgument, debate.StageConFactCheck,
		debate.StageProArgument, debate.StageProFactCheck,
		debate.StageConArgument, debate.StageConFactCheck,
		debate.StageProConclusion, debate.StageConConclusion,
		debate.StageEvaluate,
	}
	assert.Equal(t, want, stages)

	// CurrentRound increments exactly at the con fact check transitions
	wantRounds := []int{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2}
	assert.Equal(t, wantRounds, roundAtStage)
}

func TestEngine_Run_GeneratorFailureIsStageError(t *testing.T) {
	gen := &testutil.MockCompleter{Err: errors.New("connection refused")}

	eng, err := debate.NewEngine(debate.Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: gen,
	})
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(debate.StageSetDebate))
}

func TestEngine_Run_FactCheckFailureIsNotFatal(t *testing.T) {
	// Generator fails only for fact-check prompts
	gen := &testutil.MockCompleter{
		Script: func(req llm.Request) (*llm.Response, error) {
			system := req.Messages[0].Content
			switch {
			case strings.Contains(system, "fact-checker"):
				return nil, errors.New("fact-check service down")
			case strings.Contains(system, "debate judge"):
				return &llm.Response{Content: "Pro: 50 points, Con: 50 points"}, nil
			default:
				return &llm.Response{Content: "text"}, nil
			}
		},
	}

	eng, err := debate.NewEngine(debate.Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: gen,
	})
	require.NoError(t, err)

	final, err := eng.Run(context.Background(), nil)
	require.NoError(t, err, "a fact-check outage must not abort the pipeline")

	require.Len(t, final.Rounds, 1)
	assert.Contains(t, final.Rounds[0].ProFactCheck, "Fact check unavailable")
	assert.Contains(t, final.Rounds[0].ConFactCheck, "Fact check unavailable")
	assert.Equal(t, debate.WinnerTie, final.Winner)
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	eng, err := debate.NewEngine(debate.Config{
		Topic:     "Should X?",
		MaxRounds: 1,
		Generator: scriptedGenerator(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
