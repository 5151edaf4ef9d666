// Package export renders finished debates into shareable documents.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360studio/debateclub/debate"
)

// Format identifies a transcript output format.
type Format string

const (
	// FormatMarkdown produces a readable Markdown transcript.
	FormatMarkdown Format = "markdown"
	// FormatJSON produces the raw state as indented JSON.
	FormatJSON Format = "json"
	// FormatText produces a plain-text transcript.
	FormatText Format = "text"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Markdown transcript",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Raw debate state as JSON",
	},
	FormatText: {
		Name:        FormatText,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "Plain-text transcript",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Transcript renders the debate state in the requested format.
func Transcript(state *debate.State, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return markdownTranscript(state), nil
	case FormatText:
		return textTranscript(state), nil
	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal state: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func markdownTranscript(state *debate.State) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Debate: %s\n\n", state.Topic)

	if state.Introduction != "" {
		sb.WriteString("## Introduction\n\n")
		sb.WriteString(state.Introduction)
		sb.WriteString("\n\n")
	}

	for i, round := range state.Rounds {
		fmt.Fprintf(&sb, "## Round %d\n\n", i+1)
		writeMarkdownSection(&sb, "Pro", round.ProArgument)
		writeMarkdownSection(&sb, "Pro fact check", round.ProFactCheck)
		writeMarkdownSection(&sb, "Con", round.ConArgument)
		writeMarkdownSection(&sb, "Con fact check", round.ConFactCheck)
	}

	if state.ProConclusion != "" || state.ConConclusion != "" {
		sb.WriteString("## Conclusions\n\n")
		writeMarkdownSection(&sb, "Pro", state.ProConclusion)
		writeMarkdownSection(&sb, "Con", state.ConConclusion)
	}

	if state.Evaluation != "" {
		sb.WriteString("## Verdict\n\n")
		sb.WriteString(state.Evaluation)
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "**Winner: %s** (Pro %d - Con %d)\n", state.Winner, state.ProScore, state.ConScore)
	}

	return sb.String()
}

func writeMarkdownSection(sb *strings.Builder, heading, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n%s\n\n", heading, body)
}

func textTranscript(state *debate.State) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "DEBATE: %s\n\n", state.Topic)

	if state.Introduction != "" {
		fmt.Fprintf(&sb, "INTRODUCTION\n%s\n\n", state.Introduction)
	}

	for i, round := range state.Rounds {
		fmt.Fprintf(&sb, "ROUND %d\n", i+1)
		writeTextSection(&sb, "Pro", round.ProArgument)
		writeTextSection(&sb, "Pro fact check", round.ProFactCheck)
		writeTextSection(&sb, "Con", round.ConArgument)
		writeTextSection(&sb, "Con fact check", round.ConFactCheck)
		sb.WriteString("\n")
	}

	writeTextSection(&sb, "Pro conclusion", state.ProConclusion)
	writeTextSection(&sb, "Con conclusion", state.ConConclusion)

	if state.Evaluation != "" {
		fmt.Fprintf(&sb, "VERDICT\n%s\n\nWinner: %s (Pro %d - Con %d)\n",
			state.Evaluation, state.Winner, state.ProScore, state.ConScore)
	}

	return sb.String()
}

func writeTextSection(sb *strings.Builder, heading, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(sb, "%s:\n%s\n", heading, body)
}
