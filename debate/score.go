package debate

import (
	"regexp"
	"strconv"
)

// defaultTieMargin is the score difference at or below which the debate
// is declared a tie.
const defaultTieMargin = 5

// Scores is the parsed outcome of a judge's evaluation.
type Scores struct {
	Pro    int
	Con    int
	Winner Winner
}

// ScoreParser extracts scores and a winner from the judge's free-text
// evaluation. Isolated behind an interface so the heuristic can be
// swapped or tested on its own.
type ScoreParser interface {
	Parse(evaluation string) Scores
}

// Score patterns match phrasings like "Pro: 82 points" or
// "Pro side scores 82 points". An unmatched pattern defaults that side's
// score to 0.
var (
	proScoreRe = regexp.MustCompile(`(?i)pro[\s\w]*:?\s*(\d+)[\s\w]*points?`)
	conScoreRe = regexp.MustCompile(`(?i)con[\s\w]*:?\s*(\d+)[\s\w]*points?`)
)

// RegexScoreParser is the default best-effort parser. It tolerates no
// match at all, falling back to 0/0/Tie.
type RegexScoreParser struct {
	tieMargin int
}

// NewRegexScoreParser creates a parser with the default tie margin.
func NewRegexScoreParser() *RegexScoreParser {
	return &RegexScoreParser{tieMargin: defaultTieMargin}
}

// Parse implements ScoreParser.
func (p *RegexScoreParser) Parse(evaluation string) Scores {
	s := Scores{Winner: WinnerTie}

	if m := proScoreRe.FindStringSubmatch(evaluation); m != nil {
		s.Pro, _ = strconv.Atoi(m[1])
	}
	if m := conScoreRe.FindStringSubmatch(evaluation); m != nil {
		s.Con, _ = strconv.Atoi(m[1])
	}

	diff := s.Pro - s.Con
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= p.tieMargin:
		s.Winner = WinnerTie
	case s.Pro > s.Con:
		s.Winner = WinnerPro
	default:
		s.Winner = WinnerCon
	}

	return s
}
