// Package session runs a debate on a background worker under a wall-clock
// deadline and exposes its progress as deduplicated, ordered update events
// to a polling consumer.
package session

import "github.com/c360studio/debateclub/debate"

// Tag identifies which debate field an update event carries.
type Tag string

const (
	TagIntroduction  Tag = "introduction"
	TagProArgument   Tag = "pro_argument"
	TagProFactCheck  Tag = "pro_fact_check"
	TagConArgument   Tag = "con_argument"
	TagConFactCheck  Tag = "con_fact_check"
	TagProConclusion Tag = "pro_conclusion"
	TagConConclusion Tag = "con_conclusion"
	TagEvaluation    Tag = "evaluation"
)

// Event is one incremental debate update delivered to a consumer.
// Round is 1-based and only set for per-round tags. Winner and the
// scores are only set on evaluation events.
type Event struct {
	Type     Tag           `json:"type"`
	Round    int           `json:"round,omitempty"`
	Content  string        `json:"content"`
	Winner   debate.Winner `json:"winner,omitempty"`
	ProScore *int          `json:"pro_score,omitempty"`
	ConScore *int          `json:"con_score,omitempty"`
}
