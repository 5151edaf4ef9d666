// Package main implements a mock LLM server for offline debate testing.
// It serves OpenAI-compatible /v1/chat/completions responses, routing by
// the debate role detected in the system prompt (moderator, debater,
// fact-checker, judge). This eliminates the need for a real LLM during
// wiring tests and demos, making them fast, deterministic, and
// offline-capable.
//
// Usage:
//
//	mock-llm -port 11434
//
// Each role cycles through a small set of canned responses so multi-round
// debates do not repeat themselves verbatim. The judge response always
// contains parseable scores.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Canned responses per debate role ---

var roleResponses = map[string][]string{
	"moderator": {
		"Welcome to tonight's debate. Our two speakers will argue the topic over several rounds, with fact-checks after each argument. May the best case win.",
	},
	"debater": {
		"The evidence on this question points clearly in our direction. Consider the long-run incentives: every serious study of the matter shows the benefits compounding over time, while the costs my opponent fears have never materialized where this has been tried.",
		"My opponent's argument rests on a hypothetical that collapses under scrutiny. The real-world record tells a different story, and three independent lines of evidence support our position over theirs.",
		"Let me address the strongest version of the other side's case before extending ours. Even granting their premise, the conclusion does not follow, because the mechanism they rely on cuts both ways.",
	},
	"fact-checker": {
		"The argument's central claims are broadly accurate, though the studies cited are characterized more confidently than their authors would endorse. No fabricated statistics detected.",
		"One statistic appears overstated and one causal claim is presented as settled when it remains contested. The remaining claims check out.",
	},
	"judge": {
		"Both sides argued capably. The pro side built a more coherent through-line and handled rebuttals directly, while the con side scored with a sharp attack on the causal mechanism but left its own framework underdeveloped. Pro: 82 points. Con: 74 points. The pro side wins this debate.",
	},
}

// detectRole maps a system prompt to a debate role.
func detectRole(system string) string {
	switch {
	case strings.Contains(system, "debate moderator"):
		return "moderator"
	case strings.Contains(system, "fact-checker"):
		return "fact-checker"
	case strings.Contains(system, "debate judge"):
		return "judge"
	default:
		return "debater"
	}
}

// --- Server ---

// capturedRequest stores the key fields of an incoming LLM request for
// test verification.
type capturedRequest struct {
	Model     string        `json:"model"`
	Role      string        `json:"role"`
	Messages  []chatMessage `json:"messages"`
	CallIndex int           `json:"call_index"` // 1-indexed per-role call number
	Timestamp int64         `json:"timestamp"`
}

type server struct {
	calls atomic.Int64 // total calls served

	// Per-role call counters for response cycling.
	roleCalls   map[string]*atomic.Int64
	roleCallsMu sync.Mutex // protects lazy init of roleCalls entries

	// Per-role request capture for prompt verification.
	roleRequests   map[string][]capturedRequest
	roleRequestsMu sync.Mutex
}

func newServer() *server {
	return &server{
		roleCalls:    make(map[string]*atomic.Int64),
		roleRequests: make(map[string][]capturedRequest),
	}
}

func (s *server) captureRequest(role string, req chatRequest, callIndex int) {
	s.roleRequestsMu.Lock()
	defer s.roleRequestsMu.Unlock()
	s.roleRequests[role] = append(s.roleRequests[role], capturedRequest{
		Model:     req.Model,
		Role:      role,
		Messages:  req.Messages,
		CallIndex: callIndex,
		Timestamp: time.Now().UnixMilli(),
	})
}

// getRoleCounter returns the call counter for a role, creating it lazily.
func (s *server) getRoleCounter(role string) *atomic.Int64 {
	s.roleCallsMu.Lock()
	defer s.roleCallsMu.Unlock()
	if c, ok := s.roleCalls[role]; ok {
		return c
	}
	c := &atomic.Int64{}
	s.roleCalls[role] = c
	return c
}

func main() {
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	s := newServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/requests", s.handleRequests)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock LLM server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "messages required", http.StatusBadRequest)
		return
	}

	role := detectRole(req.Messages[0].Content)
	callNum := s.calls.Add(1)

	counter := s.getRoleCounter(role)
	callIndex := int(counter.Add(1) - 1) // 0-indexed
	s.captureRequest(role, req, callIndex+1)

	responses := roleResponses[role]
	content := responses[callIndex%len(responses)]

	log.Printf("[call %d] model=%s role=%s call_index=%d", callNum, req.Model, role, callIndex+1)

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleStats reports total and per-role call counts.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.roleCallsMu.Lock()
	perRole := make(map[string]int64, len(s.roleCalls))
	for role, c := range s.roleCalls {
		perRole[role] = c.Load()
	}
	s.roleCallsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls": s.calls.Load(),
		"role_calls":  perRole,
	})
}

// handleRequests returns captured requests, optionally filtered by
// ?role=.
func (s *server) handleRequests(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")

	s.roleRequestsMu.Lock()
	var out []capturedRequest
	if role != "" {
		out = append(out, s.roleRequests[role]...)
	} else {
		for _, reqs := range s.roleRequests {
			out = append(out, reqs...)
		}
	}
	s.roleRequestsMu.Unlock()

	if out == nil {
		out = []capturedRequest{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
