package debate

import (
	"fmt"
	"strings"
)

// FormatPriorRounds renders earlier rounds' arguments as prompt context.
func FormatPriorRounds(rounds []Round) string {
	if len(rounds) == 0 {
		return "This is the first round, so there are no previous arguments."
	}

	var b strings.Builder
	for i, round := range rounds {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Round %d:\n", i+1)
		fmt.Fprintf(&b, "Pro argument: %s\n", orNA(round.ProArgument))
		fmt.Fprintf(&b, "Con argument: %s", orNA(round.ConArgument))
	}
	return b.String()
}

// FormatTranscript renders the full debate (rounds, fact checks and
// conclusions) for the judge.
func FormatTranscript(s *State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n\nROUNDS:\n", s.Topic)
	for i, round := range s.Rounds {
		fmt.Fprintf(&b, "Round %d:\n", i+1)
		fmt.Fprintf(&b, "Pro argument: %s\n", orNA(round.ProArgument))
		if round.ProFactCheck != "" {
			fmt.Fprintf(&b, "Pro fact check: %s\n", round.ProFactCheck)
		}
		fmt.Fprintf(&b, "Con argument: %s\n", orNA(round.ConArgument))
		if round.ConFactCheck != "" {
			fmt.Fprintf(&b, "Con fact check: %s\n", round.ConFactCheck)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "CONCLUSIONS:\nPro conclusion: %s\n\nCon conclusion: %s\n",
		s.ProConclusion, s.ConConclusion)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
