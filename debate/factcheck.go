package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/debateclub/debate/prompts"
	"github.com/c360studio/debateclub/llm"
)

// FallacyKinds is the fixed set of fallacies the checker scans for,
// in prompt order.
var FallacyKinds = []string{
	"Ad hominem",
	"Straw man",
	"False dichotomy",
	"Appeal to authority",
	"Slippery slope",
	"Circular reasoning",
	"Hasty generalization",
}

// FactChecker reviews an argument's factual claims. Check never fails:
// a fact-check outage must not be fatal to the round, so implementations
// convert errors into a textual result.
type FactChecker interface {
	Check(ctx context.Context, argument string) string
}

// LLMFactChecker fact-checks arguments with an LLM.
type LLMFactChecker struct {
	gen    llm.Completer
	logger *slog.Logger
}

// NewLLMFactChecker creates a fact checker backed by the given generator.
func NewLLMFactChecker(gen llm.Completer, logger *slog.Logger) *LLMFactChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMFactChecker{gen: gen, logger: logger}
}

// Check reviews the argument's factual claims. On any generation failure
// it returns a "fact check unavailable" result instead of an error.
func (f *LLMFactChecker) Check(ctx context.Context, argument string) string {
	resp, err := f.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.FactCheckSystem(argument)},
			{Role: "user", Content: prompts.FactCheckUser()},
		},
	})
	if err != nil {
		f.logger.Warn("Fact check failed, continuing without it", "error", err)
		return fmt.Sprintf("Fact check unavailable: %v", err)
	}
	return resp.Content
}

// CheckFallacies flags which of FallacyKinds appear in the text. It is
// best-effort: any failure returns the zero map.
func (f *LLMFactChecker) CheckFallacies(ctx context.Context, text string) map[string]bool {
	found := make(map[string]bool, len(FallacyKinds))
	for _, kind := range FallacyKinds {
		found[kind] = false
	}

	resp, err := f.gen.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "user", Content: prompts.FallacyScan(FallacyKinds, text)},
		},
	})
	if err != nil {
		f.logger.Warn("Fallacy scan failed", "error", err)
		return found
	}

	// One yes/no line per fallacy kind, in prompt order.
	lines := strings.Split(strings.TrimSpace(resp.Content), "\n")
	for i, line := range lines {
		if i >= len(FallacyKinds) {
			break
		}
		if strings.Contains(strings.ToLower(line), "yes") {
			found[FallacyKinds[i]] = true
		}
	}
	return found
}
