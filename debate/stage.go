package debate

// Stage identifies one step of the debate pipeline. The set is closed and
// the control flow is the explicit transition table in Next, so the whole
// pipeline is statically enumerable.
type Stage string

const (
	// StageSetDebate produces the moderator's introduction.
	StageSetDebate Stage = "set_debate"
	// StageProArgument generates the pro argument for the current round.
	StageProArgument Stage = "generate_pro_argument"
	// StageProFactCheck fact-checks the current round's pro argument.
	StageProFactCheck Stage = "check_pro_facts"
	// StageConArgument generates the con argument for the current round.
	StageConArgument Stage = "generate_con_argument"
	// StageConFactCheck fact-checks the current round's con argument and
	// advances the round counter.
	StageConFactCheck Stage = "check_con_facts"
	// StageProConclusion produces the pro side's closing statement.
	StageProConclusion Stage = "pro_conclusion"
	// StageConConclusion produces the con side's closing statement.
	StageConConclusion Stage = "con_conclusion"
	// StageEvaluate judges the debate and extracts scores and a winner.
	StageEvaluate Stage = "evaluate"
	// StageEnd is the terminal stage.
	StageEnd Stage = "end"
)

// String returns the stage identifier.
func (s Stage) String() string {
	return string(s)
}

// Next returns the successor stage given the state after this stage's
// update has been applied. The only branch is the round-completion guard
// after the con fact check: more rounds to play loops back to the pro
// argument, otherwise the pipeline moves to conclusions.
func (s Stage) Next(state *State) Stage {
	switch s {
	case StageSetDebate:
		return StageProArgument
	case StageProArgument:
		return StageProFactCheck
	case StageProFactCheck:
		return StageConArgument
	case StageConArgument:
		return StageConFactCheck
	case StageConFactCheck:
		if state.CurrentRound < state.MaxRounds {
			return StageProArgument
		}
		return StageProConclusion
	case StageProConclusion:
		return StageConConclusion
	case StageConConclusion:
		return StageEvaluate
	case StageEvaluate:
		return StageEnd
	default:
		return StageEnd
	}
}

// Stages lists every pipeline stage in canonical order.
func Stages() []Stage {
	return []Stage{
		StageSetDebate,
		StageProArgument,
		StageProFactCheck,
		StageConArgument,
		StageConFactCheck,
		StageProConclusion,
		StageConConclusion,
		StageEvaluate,
		StageEnd,
	}
}
