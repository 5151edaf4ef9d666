// Package research gathers background material on a debate topic.
package research

import "context"

// Source provides background material for a topic.
type Source interface {
	// Background returns markdown background material for the topic.
	Background(ctx context.Context, topic string) (string, error)
}

// FallbackBackground is used when no source is configured or research fails.
const FallbackBackground = "No background research available for this topic."

// StaticSource returns a fixed background for every topic. Useful for
// tests and for running debates without network access.
type StaticSource struct {
	Text string
}

func (s StaticSource) Background(_ context.Context, _ string) (string, error) {
	if s.Text == "" {
		return FallbackBackground, nil
	}
	return s.Text, nil
}
