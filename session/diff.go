package session

import "github.com/c360studio/debateclub/debate"

// diff compares two state snapshots and returns one event per newly
// populated or changed field, in the canonical emission order:
// introduction; per round ascending, pro_argument, pro_fact_check,
// con_argument, con_fact_check; pro_conclusion; con_conclusion;
// evaluation. Because debate fields are never cleared or rewritten,
// emitting only changed fields guarantees at most one event per
// (tag, round) pair across a session's lifetime.
func diff(prev, next *debate.State) []Event {
	if next == nil {
		return nil
	}

	var old debate.State
	if prev != nil {
		old = *prev
	}

	var events []Event

	if next.Introduction != "" && next.Introduction != old.Introduction {
		events = append(events, Event{Type: TagIntroduction, Content: next.Introduction})
	}

	for i, round := range next.Rounds {
		var prevRound debate.Round
		if i < len(old.Rounds) {
			prevRound = old.Rounds[i]
		}
		number := i + 1

		if round.ProArgument != "" && round.ProArgument != prevRound.ProArgument {
			events = append(events, Event{Type: TagProArgument, Round: number, Content: round.ProArgument})
		}
		if round.ProFactCheck != "" && round.ProFactCheck != prevRound.ProFactCheck {
			events = append(events, Event{Type: TagProFactCheck, Round: number, Content: round.ProFactCheck})
		}
		if round.ConArgument != "" && round.ConArgument != prevRound.ConArgument {
			events = append(events, Event{Type: TagConArgument, Round: number, Content: round.ConArgument})
		}
		if round.ConFactCheck != "" && round.ConFactCheck != prevRound.ConFactCheck {
			events = append(events, Event{Type: TagConFactCheck, Round: number, Content: round.ConFactCheck})
		}
	}

	if next.ProConclusion != "" && next.ProConclusion != old.ProConclusion {
		events = append(events, Event{Type: TagProConclusion, Content: next.ProConclusion})
	}
	if next.ConConclusion != "" && next.ConConclusion != old.ConConclusion {
		events = append(events, Event{Type: TagConConclusion, Content: next.ConConclusion})
	}

	if next.Evaluation != "" && next.Evaluation != old.Evaluation {
		proScore := next.ProScore
		conScore := next.ConScore
		events = append(events, Event{
			Type:     TagEvaluation,
			Content:  next.Evaluation,
			Winner:   next.Winner,
			ProScore: &proScore,
			ConScore: &conScore,
		})
	}

	return events
}
