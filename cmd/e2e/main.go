// Package main provides the e2e test runner CLI. It drives a running
// debateclub server through the public polling API, the same way a UI
// consumer would, and verifies the streamed updates arrive complete,
// ordered, and free of duplicates.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/debateclub/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		serverURL    string
		topic        string
		rounds       int
		pollInterval time.Duration
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "e2e",
		Short: "Run a debateclub end-to-end check",
		Long: `Creates a debate on a running debateclub server, polls it to
completion at a consumer-realistic cadence, and verifies the update
stream: every expected tag present, rounds in ascending order, no
duplicate (tag, round) pairs, and a final evaluation with winner and
scores.

Example:
  e2e --server http://localhost:8080 --topic "Should X?" --rounds 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return run(ctx, serverURL, topic, rounds, pollInterval)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Debateclub server URL")
	cmd.Flags().StringVar(&topic, "topic", "Should machines be allowed to vote?", "Debate topic")
	cmd.Flags().IntVar(&rounds, "rounds", 2, "Number of argument rounds")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "Status poll cadence")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "Global timeout")

	return cmd
}

func run(ctx context.Context, serverURL, topic string, rounds int, pollInterval time.Duration) error {
	client := &http.Client{Timeout: 30 * time.Second}

	id, err := createDebate(ctx, client, serverURL, topic, rounds)
	if err != nil {
		return fmt.Errorf("create debate: %w", err)
	}
	fmt.Printf("Created debate %s: %q (%d rounds)\n", id, topic, rounds)

	events, status, err := pollToCompletion(ctx, client, serverURL, id, pollInterval)
	if err != nil {
		return err
	}

	if status.Error != "" {
		return fmt.Errorf("debate finished with error: %s", status.Error)
	}

	if err := verifyEvents(events, rounds); err != nil {
		return fmt.Errorf("update stream invalid: %w", err)
	}

	final := events[len(events)-1]
	fmt.Printf("PASS: %d updates, winner %s (Pro %d - Con %d), %.1fs\n",
		len(events), final.Winner, *final.ProScore, *final.ConScore, status.Duration)
	return nil
}

func createDebate(ctx context.Context, client *http.Client, serverURL, topic string, rounds int) (string, error) {
	body, err := json.Marshal(map[string]any{"topic": topic, "max_rounds": rounds})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/debates", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func pollToCompletion(ctx context.Context, client *http.Client, serverURL, id string, interval time.Duration) ([]session.Event, session.Status, error) {
	base := serverURL + "/api/debates/" + id
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var events []session.Event
	for {
		var status session.Status
		if err := getJSON(ctx, client, base+"/status", &status); err != nil {
			return nil, status, fmt.Errorf("poll status: %w", err)
		}

		var updates struct {
			Updates []session.Event `json:"updates"`
		}
		if err := getJSON(ctx, client, base+"/updates", &updates); err != nil {
			return nil, status, fmt.Errorf("drain updates: %w", err)
		}
		for _, event := range updates.Updates {
			fmt.Printf("  [%s] %s\n", event.Type, preview(event.Content))
			events = append(events, event)
		}

		if status.Complete {
			return events, status, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return events, status, ctx.Err()
		}
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// verifyEvents checks the drained stream against the expected shape of
// an n-round debate.
func verifyEvents(events []session.Event, rounds int) error {
	type key struct {
		tag   session.Tag
		round int
	}

	want := []key{{session.TagIntroduction, 0}}
	for round := 1; round <= rounds; round++ {
		want = append(want,
			key{session.TagProArgument, round},
			key{session.TagProFactCheck, round},
			key{session.TagConArgument, round},
			key{session.TagConFactCheck, round},
		)
	}
	want = append(want,
		key{session.TagProConclusion, 0},
		key{session.TagConConclusion, 0},
		key{session.TagEvaluation, 0},
	)

	if len(events) != len(want) {
		return fmt.Errorf("got %d events, want %d", len(events), len(want))
	}

	seen := make(map[key]bool)
	for i, event := range events {
		k := key{event.Type, event.Round}
		if k != want[i] {
			return fmt.Errorf("event %d is %v, want %v", i, k, want[i])
		}
		if seen[k] {
			return fmt.Errorf("duplicate event %v", k)
		}
		seen[k] = true
		if event.Content == "" {
			return fmt.Errorf("event %v has empty content", k)
		}
	}

	final := events[len(events)-1]
	if final.ProScore == nil || final.ConScore == nil {
		return fmt.Errorf("evaluation missing scores")
	}
	if final.Winner == "" {
		return fmt.Errorf("evaluation missing winner")
	}
	return nil
}

func preview(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
