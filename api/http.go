// Package api exposes the debate service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/c360studio/debateclub/debate"
	"github.com/c360studio/debateclub/export"
	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/research"
	"github.com/c360studio/debateclub/session"
	"github.com/c360studio/debateclub/storage"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// persistPollInterval is how often the persistence watcher checks a
// running debate for completion.
const persistPollInterval = 2 * time.Second

// Defaults applied to debates created without explicit values.
const (
	DefaultMaxRounds = 3
)

// Handler serves the debate API.
type Handler struct {
	logger    *slog.Logger
	manager   *session.Manager
	generator llm.Completer
	research  research.Source
	store     *storage.DebateStore
	maxRounds int
	timeout   time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithResearch sets the background research source for new debates.
func WithResearch(source research.Source) Option {
	return func(h *Handler) {
		h.research = source
	}
}

// WithStore enables persistence of finished debates.
func WithStore(store *storage.DebateStore) Option {
	return func(h *Handler) {
		h.store = store
	}
}

// WithDefaultMaxRounds overrides the default round count.
func WithDefaultMaxRounds(rounds int) Option {
	return func(h *Handler) {
		h.maxRounds = rounds
	}
}

// WithTimeout sets the wall-clock deadline for each debate run.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates the API handler.
func NewHandler(generator llm.Completer, opts ...Option) *Handler {
	h := &Handler{
		logger:    slog.Default(),
		manager:   session.NewManager(),
		generator: generator,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterHTTPHandlers registers all debate handlers under the given
// prefix. The prefix should be the path segment without a trailing
// slash (e.g. "api"). Handlers are registered as:
//
//	POST <prefix>/debates
//	GET  <prefix>/debates
//	GET  <prefix>/debates/{id}/status
//	GET  <prefix>/debates/{id}/updates
//	GET  <prefix>/debates/{id}/state
//	GET  <prefix>/debates/{id}/transcript
func (h *Handler) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	// Normalise: ensure leading slash and trailing slash.
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	mux.HandleFunc(prefix+"debates", h.handleDebates)
	mux.HandleFunc(prefix+"debates/", h.handleDebate)
}

type createDebateRequest struct {
	Topic      string `json:"topic"`
	Background string `json:"background,omitempty"`
	MaxRounds  int    `json:"max_rounds,omitempty"`
	ProName    string `json:"pro_name,omitempty"`
	ConName    string `json:"con_name,omitempty"`
}

type createDebateResponse struct {
	ID string `json:"id"`
}

// handleDebates dispatches the debate collection endpoint.
func (h *Handler) handleDebates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreateDebate(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.manager.List())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleCreateDebate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req createDebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	maxRounds := req.MaxRounds
	if maxRounds == 0 {
		maxRounds = h.maxRounds
	}

	id, s, err := h.manager.Create(r.Context(), session.Config{
		Topic:      req.Topic,
		Background: req.Background,
		MaxRounds:  maxRounds,
		Timeout:    h.timeout,
		Generator:  h.generator,
		ProName:    req.ProName,
		ConName:    req.ConName,
		Research:   h.research,
		Logger:     h.logger,
	})
	if err != nil {
		var vErr *debate.ValidationError
		if errors.As(err, &vErr) {
			http.Error(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to create debate", "error", err)
		http.Error(w, "Failed to create debate", http.StatusInternalServerError)
		return
	}

	s.StartAsync()
	if h.store != nil {
		go h.persistWhenDone(id, s)
	}

	h.logger.Info("Debate started", "id", id, "topic", req.Topic, "max_rounds", maxRounds)
	writeJSON(w, http.StatusCreated, createDebateResponse{ID: id})
}

// handleDebate dispatches per-debate subresources:
// /debates/{id}/status, /debates/{id}/updates, /debates/{id}/state.
func (h *Handler) handleDebate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, action := splitDebatePath(r.URL.Path)
	if id == "" {
		http.Error(w, "Debate ID required", http.StatusBadRequest)
		return
	}

	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "Debate not found", http.StatusNotFound)
		return
	}

	switch action {
	case "status":
		writeJSON(w, http.StatusOK, s.PollStatus())
	case "updates":
		updates := s.DrainUpdates()
		if updates == nil {
			updates = []session.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
	case "state":
		writeJSON(w, http.StatusOK, s.Snapshot())
	case "transcript":
		h.handleTranscript(w, r, s)
	default:
		http.Error(w, "Unknown resource", http.StatusNotFound)
	}
}

// handleTranscript renders the debate in the requested export format
// (?format=markdown|json|text, default markdown).
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request, s *session.Session) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatMarkdown
	}

	info, ok := export.GetFormatInfo(format)
	if !ok {
		http.Error(w, "Unsupported format", http.StatusBadRequest)
		return
	}

	transcript, err := export.Transcript(s.Snapshot(), format)
	if err != nil {
		h.logger.Error("Failed to render transcript", "format", format, "error", err)
		http.Error(w, "Failed to render transcript", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", info.MIMEType)
	_, _ = w.Write([]byte(transcript))
}

// persistWhenDone saves the finished debate to the store.
func (h *Handler) persistWhenDone(id string, s *session.Session) {
	ticker := time.NewTicker(persistPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !s.IsComplete() {
			continue
		}

		status := s.PollStatus()
		record := &storage.Record{
			ID:       id,
			State:    s.Snapshot(),
			Complete: true,
			Error:    status.Error,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := h.store.Save(ctx, record); err != nil {
			h.logger.Error("Failed to persist debate", "id", id, "error", err)
		}
		cancel()
		return
	}
}

// splitDebatePath extracts the debate ID and subresource from a path
// like ".../debates/{id}/{action}".
func splitDebatePath(path string) (id, action string) {
	const marker = "/debates/"
	idx := strings.Index(path, marker)
	if idx < 0 {
		return "", ""
	}
	rest := strings.Trim(path[idx+len(marker):], "/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to do.
		_ = err
	}
}
