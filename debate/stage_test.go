package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_Next_LinearTransitions(t *testing.T) {
	s := NewState("t", "b", 2)

	assert.Equal(t, StageProArgument, StageSetDebate.Next(s))
	assert.Equal(t, StageProFactCheck, StageProArgument.Next(s))
	assert.Equal(t, StageConArgument, StageProFactCheck.Next(s))
	assert.Equal(t, StageConFactCheck, StageConArgument.Next(s))
	assert.Equal(t, StageConConclusion, StageProConclusion.Next(s))
	assert.Equal(t, StageEvaluate, StageConConclusion.Next(s))
	assert.Equal(t, StageEnd, StageEvaluate.Next(s))
	assert.Equal(t, StageEnd, StageEnd.Next(s))
}

func TestStage_Next_RoundCompletionGuard(t *testing.T) {
	s := NewState("t", "b", 2)

	// After round 1 of 2, loop back for another round
	s.CurrentRound = 1
	assert.Equal(t, StageProArgument, StageConFactCheck.Next(s))

	// After round 2 of 2, move to conclusions
	s.CurrentRound = 2
	assert.Equal(t, StageProConclusion, StageConFactCheck.Next(s))
}

func TestStages_EveryStageHasASuccessor(t *testing.T) {
	s := NewState("t", "b", 1)
	for _, stage := range Stages() {
		next := stage.Next(s)
		assert.NotEmpty(t, next, "stage %s", stage)
	}
}
