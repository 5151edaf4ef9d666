package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/c360studio/debateclub/api"
	"github.com/c360studio/debateclub/config"
	"github.com/c360studio/debateclub/export"
	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/metrics"
	"github.com/c360studio/debateclub/research"
	"github.com/c360studio/debateclub/session"
	"github.com/c360studio/debateclub/storage"
)

// pollInterval is the cadence at which the run command polls its debate.
const pollInterval = 2 * time.Second

// loadConfig loads layered configuration, with an explicit file taking
// precedence over discovery.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

// tunedCompleter applies configured generation defaults to requests that
// do not set their own.
type tunedCompleter struct {
	inner       llm.Completer
	temperature float64
	maxTokens   int
}

func (t *tunedCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if req.Temperature == nil {
		temp := t.temperature
		req.Temperature = &temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = t.maxTokens
	}
	return t.inner.Complete(ctx, req)
}

// buildGenerator constructs the LLM client from model configuration.
func buildGenerator(cfg *config.Config, logger *slog.Logger) llm.Completer {
	client := llm.NewClient(llm.Endpoint{
		Provider: cfg.Model.Provider,
		URL:      cfg.Model.Endpoint,
		Model:    cfg.Model.Name,
	}, llm.WithLogger(logger))

	return &tunedCompleter{
		inner:       client,
		temperature: cfg.Model.Temperature,
		maxTokens:   cfg.Model.MaxTokens,
	}
}

// buildResearch constructs the configured research source, or nil when
// research is disabled.
func buildResearch(cfg *config.Config) research.Source {
	if cfg.Research.Source == "wikipedia" {
		return research.NewWikipedia()
	}
	return nil
}

// connectStore connects to NATS and creates the debate store. Returns
// nil when persistence is not configured.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.DebateStore, error) {
	if cfg.NATS.URL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := storage.NewDebateStore(ctx, js)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create debate store: %w", err)
	}

	logger.Info("Debate persistence enabled", "nats_url", cfg.NATS.URL)
	return store, nil
}

func serveCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the debate HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := connectStore(ctx, cfg, logger)
			if err != nil {
				return err
			}

			opts := []api.Option{
				api.WithLogger(logger),
				api.WithDefaultMaxRounds(cfg.Debate.MaxRounds),
				api.WithTimeout(cfg.Debate.Timeout),
			}
			if source := buildResearch(cfg); source != nil {
				opts = append(opts, api.WithResearch(source))
			}
			if store != nil {
				opts = append(opts, api.WithStore(store))
			}

			handler := api.NewHandler(buildGenerator(cfg, logger), opts...)

			mux := http.NewServeMux()
			handler.RegisterHTTPHandlers(cfg.Server.APIPrefix, mux)
			mux.Handle("/metrics", metrics.Handler())
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})

			server := &http.Server{
				Addr:              cfg.Server.Address,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Debateclub listening",
					"address", cfg.Server.Address,
					"model", cfg.Model.Name,
					"provider", cfg.Model.Provider)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
			}
			return nil
		},
	}
}

func runCmd(configPath, logLevel *string) *cobra.Command {
	var (
		topic  string
		rounds int
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single debate in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if rounds == 0 {
				rounds = cfg.Debate.MaxRounds
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := session.New(ctx, session.Config{
				Topic:     topic,
				MaxRounds: rounds,
				Timeout:   cfg.Debate.Timeout,
				Generator: buildGenerator(cfg, logger),
				Research:  buildResearch(cfg),
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Debate: %s (%d rounds)\n\n", topic, rounds)
			s.StartAsync()

			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()

			for {
				for _, event := range s.DrainUpdates() {
					printEvent(event)
				}
				if s.IsComplete() {
					break
				}
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			// Drain anything emitted between the last poll and completion.
			for _, event := range s.DrainUpdates() {
				printEvent(event)
			}

			status := s.PollStatus()
			if status.Error != "" {
				return fmt.Errorf("debate failed: %s", status.Error)
			}
			fmt.Printf("\nFinished in %.1fs\n", status.Duration)

			if output != "" {
				transcript, err := export.Transcript(s.Snapshot(), export.FormatMarkdown)
				if err != nil {
					return fmt.Errorf("render transcript: %w", err)
				}
				if err := os.WriteFile(output, []byte(transcript), 0644); err != nil {
					return fmt.Errorf("write transcript: %w", err)
				}
				fmt.Printf("Transcript saved to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Debate topic")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "Number of argument rounds (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a markdown transcript to this file")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func printEvent(event session.Event) {
	header := strings.ToUpper(strings.ReplaceAll(string(event.Type), "_", " "))
	if event.Round > 0 {
		header = fmt.Sprintf("%s (ROUND %d)", header, event.Round)
	}
	fmt.Printf("=== %s ===\n%s\n\n", header, event.Content)

	if event.Type == session.TagEvaluation && event.ProScore != nil && event.ConScore != nil {
		fmt.Printf("Winner: %s (Pro %d - Con %d)\n", event.Winner, *event.ProScore, *event.ConScore)
	}
}
