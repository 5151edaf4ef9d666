// Package debate implements the debate pipeline: a closed set of stages
// driven by an explicit transition table over a strongly-typed state.
package debate

// Side identifies a debate position.
type Side string

const (
	// SidePro argues for the topic.
	SidePro Side = "pro"
	// SideCon argues against the topic.
	SideCon Side = "con"
)

// Winner is the judged outcome of a debate.
type Winner string

const (
	// WinnerPro indicates the pro side won.
	WinnerPro Winner = "Pro"
	// WinnerCon indicates the con side won.
	WinnerCon Winner = "Con"
	// WinnerTie indicates scores were within the tie margin.
	WinnerTie Winner = "Tie"
)

// Round holds one round's arguments and fact checks. Fields are filled in
// a fixed order (pro argument, pro fact check, con argument, con fact
// check) and never cleared once set.
type Round struct {
	ProArgument  string `json:"pro_argument,omitempty"`
	ProFactCheck string `json:"pro_fact_check,omitempty"`
	ConArgument  string `json:"con_argument,omitempty"`
	ConFactCheck string `json:"con_fact_check,omitempty"`
}

// Argument returns the round's argument for a side.
func (r Round) Argument(side Side) string {
	if side == SidePro {
		return r.ProArgument
	}
	return r.ConArgument
}

// State is the full debate state threaded through the pipeline.
// CurrentRound is 0-based internally; it is surfaced 1-based to consumers.
type State struct {
	Topic         string  `json:"topic"`
	Background    string  `json:"background"`
	CurrentRound  int     `json:"current_round"`
	MaxRounds     int     `json:"max_rounds"`
	Introduction  string  `json:"introduction,omitempty"`
	Rounds        []Round `json:"rounds"`
	ProConclusion string  `json:"pro_conclusion,omitempty"`
	ConConclusion string  `json:"con_conclusion,omitempty"`
	Evaluation    string  `json:"evaluation,omitempty"`
	Winner        Winner  `json:"winner,omitempty"`
	ProScore      int     `json:"pro_score"`
	ConScore      int     `json:"con_score"`
}

// NewState creates the initial state for a debate.
func NewState(topic, background string, maxRounds int) *State {
	return &State{
		Topic:      topic,
		Background: background,
		MaxRounds:  maxRounds,
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Rounds = make([]Round, len(s.Rounds))
	copy(c.Rounds, s.Rounds)
	return &c
}

// Update is a typed partial update returned by a stage. Only the fields a
// stage touches are set; Apply merges them into the state without
// clobbering anything else.
type Update struct {
	// Introduction, if non-nil, sets the introduction.
	Introduction *string

	// Rounds, if non-nil, replaces the rounds slice. Stages only ever
	// append rounds or fill empty fields of existing rounds.
	Rounds []Round

	// AdvanceRound increments CurrentRound by one. Only the con
	// fact-check stage sets this; it is the single increment point.
	AdvanceRound bool

	// ProConclusion and ConConclusion, if non-nil, set the conclusions.
	ProConclusion *string
	ConConclusion *string

	// Evaluation fields are set together by the evaluate stage.
	Evaluation *string
	Winner     *Winner
	ProScore   *int
	ConScore   *int
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Introduction == nil &&
		u.Rounds == nil &&
		!u.AdvanceRound &&
		u.ProConclusion == nil &&
		u.ConConclusion == nil &&
		u.Evaluation == nil &&
		u.Winner == nil &&
		u.ProScore == nil &&
		u.ConScore == nil
}

// Apply merges a partial update into the state. The rounds slice is only
// replaced when it does not shrink, so round history never regresses.
func (s *State) Apply(u Update) {
	if u.Introduction != nil {
		s.Introduction = *u.Introduction
	}
	if u.Rounds != nil && len(u.Rounds) >= len(s.Rounds) {
		s.Rounds = u.Rounds
	}
	if u.AdvanceRound {
		s.CurrentRound++
	}
	if u.ProConclusion != nil {
		s.ProConclusion = *u.ProConclusion
	}
	if u.ConConclusion != nil {
		s.ConConclusion = *u.ConConclusion
	}
	if u.Evaluation != nil {
		s.Evaluation = *u.Evaluation
	}
	if u.Winner != nil {
		s.Winner = *u.Winner
	}
	if u.ProScore != nil {
		s.ProScore = *u.ProScore
	}
	if u.ConScore != nil {
		s.ConScore = *u.ConScore
	}
}
