package debate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/workflow"
)

// ValidationError represents a validation error in debate configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// StageFunc is a pure state transform: given the current state it returns
// only the fields it changes.
type StageFunc func(ctx context.Context, state *State) (Update, error)

// Observer is invoked after each stage's update has been applied, with
// the stage that ran and a snapshot of the new state.
type Observer func(stage Stage, snapshot *State)

// Config configures a debate engine.
type Config struct {
	// Topic is the debate topic. Required.
	Topic string

	// Background is contextual information on the topic.
	Background string

	// MaxRounds is the number of argument rounds. Must be at least 1.
	MaxRounds int

	// Generator produces arguments, conclusions and evaluations. Required.
	Generator llm.Completer

	// FactChecker reviews arguments. Defaults to an LLMFactChecker
	// backed by Generator.
	FactChecker FactChecker

	// Parser extracts scores from the evaluation. Defaults to the regex
	// parser.
	Parser ScoreParser

	// ProName and ConName override the debaters' random personas.
	ProName string
	ConName string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Engine drives the debate pipeline from set_debate to end.
type Engine struct {
	logger *slog.Logger
	state  *State
	stages map[Stage]StageFunc
	pro    *Debater
	con    *Debater
}

// NewEngine validates the configuration and builds the pipeline.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Topic == "" {
		return nil, &ValidationError{Field: "topic", Message: "topic is required"}
	}
	if cfg.MaxRounds < 1 {
		return nil, &ValidationError{Field: "max_rounds", Message: "must be at least 1"}
	}
	if cfg.Generator == nil {
		return nil, &ValidationError{Field: "generator", Message: "generator is required"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	checker := cfg.FactChecker
	if checker == nil {
		checker = NewLLMFactChecker(cfg.Generator, logger)
	}

	e := &Engine{
		logger: logger,
		state:  NewState(cfg.Topic, cfg.Background, cfg.MaxRounds),
		pro:    NewDebater(cfg.Generator, SidePro, cfg.ProName),
		con:    NewDebater(cfg.Generator, SideCon, cfg.ConName),
	}

	moderator := NewModerator(cfg.Generator)
	judge := NewJudge(cfg.Generator, cfg.Parser)

	e.stages = map[Stage]StageFunc{
		StageSetDebate:    moderator.Introduce,
		StageProArgument:  e.pro.Argument,
		StageProFactCheck: e.checkFacts(SidePro, checker),
		StageConArgument:  e.con.Argument,
		StageConFactCheck: e.checkFacts(SideCon, checker),
		StageEvaluate:     judge.Evaluate,
	}

	return e, nil
}

// State returns the engine's current state. The engine owns it exclusively
// while Run is in progress; callers use Observer snapshots instead.
func (e *Engine) State() *State {
	return e.state
}

// Run walks the pipeline to the terminal stage, applying each stage's
// partial update and notifying the observer after every transition.
// The two conclusion stages have no data dependency on each other and run
// as concurrent scheduler tasks.
func (e *Engine) Run(ctx context.Context, observe Observer) (*State, error) {
	stage := StageSetDebate

	for stage != StageEnd {
		if err := ctx.Err(); err != nil {
			return e.state, err
		}

		if stage == StageProConclusion {
			if err := e.runConclusions(ctx, observe); err != nil {
				return e.state, err
			}
			stage = StageConConclusion.Next(e.state)
			continue
		}

		fn, ok := e.stages[stage]
		if !ok {
			return e.state, fmt.Errorf("no implementation for stage %s", stage)
		}

		e.logger.Debug("Running stage", "stage", stage, "round", e.state.CurrentRound+1)

		update, err := fn(ctx, e.state)
		if err != nil {
			return e.state, fmt.Errorf("stage %s: %w", stage, err)
		}

		e.state.Apply(update)
		e.notify(observe, stage)

		stage = stage.Next(e.state)
	}

	return e.state, nil
}

// runConclusions executes both closing statements as independent tasks of
// a dependency workflow, then applies pro before con so observers always
// see them in the canonical order.
func (e *Engine) runConclusions(ctx context.Context, observe Observer) error {
	wf := workflow.New(workflow.WithLogger(e.logger))

	conclude := func(d *Debater) workflow.Fn {
		return func(taskCtx context.Context, _ *workflow.Context) (any, error) {
			return d.Conclusion(taskCtx, e.state)
		}
	}

	if err := wf.Register(string(StageProConclusion), conclude(e.pro)); err != nil {
		return err
	}
	if err := wf.Register(string(StageConConclusion), conclude(e.con)); err != nil {
		return err
	}

	wc, err := wf.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("conclusion workflow: %w", err)
	}

	for _, stage := range []Stage{StageProConclusion, StageConConclusion} {
		result, ok := wc.Result(string(stage))
		if !ok {
			task := wf.Task(string(stage))
			return fmt.Errorf("stage %s: %w", stage, task.Err)
		}
		e.state.Apply(result.(Update))
		e.notify(observe, stage)
	}

	return nil
}

func (e *Engine) notify(observe Observer, stage Stage) {
	if observe == nil {
		return
	}
	observe(stage, e.state.Clone())
}

// checkFacts builds the fact-check stage for a side. If the current
// round's argument is absent the stage is a no-op. Only the con side's
// check advances the round counter, after its result is stored.
func (e *Engine) checkFacts(side Side, checker FactChecker) StageFunc {
	return func(ctx context.Context, state *State) (Update, error) {
		round := state.CurrentRound
		if round >= len(state.Rounds) {
			return Update{}, nil
		}

		argument := state.Rounds[round].Argument(side)
		if argument == "" {
			return Update{}, nil
		}

		result := checker.Check(ctx, argument)

		rounds := make([]Round, len(state.Rounds))
		copy(rounds, state.Rounds)
		if side == SidePro {
			rounds[round].ProFactCheck = result
		} else {
			rounds[round].ConFactCheck = result
		}

		update := Update{Rounds: rounds}
		if side == SideCon {
			update.AdvanceRound = true
		}
		return update, nil
	}
}
