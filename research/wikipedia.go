package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	defaultWikipediaBase = "https://en.wikipedia.org/wiki/"
	defaultUserAgent     = "debateclub/1.0"
	maxArticleSize       = 5 * 1024 * 1024 // 5MB
	maxBackgroundRunes   = 8000
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Wikipedia fetches a topic's Wikipedia article and reduces it to
// markdown background material.
type Wikipedia struct {
	client    *http.Client
	converter *md.Converter
	baseURL   string
	userAgent string
}

// WikipediaOption configures a Wikipedia source.
type WikipediaOption func(*Wikipedia)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) WikipediaOption {
	return func(w *Wikipedia) {
		w.client = client
	}
}

// WithBaseURL overrides the article base URL.
func WithBaseURL(base string) WikipediaOption {
	return func(w *Wikipedia) {
		w.baseURL = base
	}
}

// NewWikipedia creates a Wikipedia research source.
func NewWikipedia(opts ...WikipediaOption) *Wikipedia {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	w := &Wikipedia{
		client:    &http.Client{Timeout: 30 * time.Second},
		converter: converter,
		baseURL:   defaultWikipediaBase,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Background fetches the article for the topic and returns it as markdown.
func (w *Wikipedia) Background(ctx context.Context, topic string) (string, error) {
	articleURL := w.baseURL + url.PathEscape(strings.ReplaceAll(topic, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching article: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize))
	if err != nil {
		return "", fmt.Errorf("reading article: %w", err)
	}

	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("parsing article URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		// Readability can fail on unusual layouts. Fall back to the raw
		// document so the debate still gets some material.
		return w.toMarkdown(extractTitle(string(body)), string(body))
	}

	content := article.Content
	if content == "" {
		content = string(body)
	}
	title := article.Title
	if title == "" {
		title = extractTitle(string(body))
	}
	return w.toMarkdown(title, content)
}

func (w *Wikipedia) toMarkdown(title, htmlContent string) (string, error) {
	markdown, err := w.converter.ConvertString(htmlContent)
	if err != nil {
		return "", fmt.Errorf("converting article: %w", err)
	}

	markdown = strings.TrimSpace(excessiveLinesRe.ReplaceAllString(markdown, "\n\n\n"))
	if markdown == "" {
		return "", fmt.Errorf("article produced no content")
	}

	runes := []rune(markdown)
	if len(runes) > maxBackgroundRunes {
		markdown = string(runes[:maxBackgroundRunes])
	}
	if title != "" {
		markdown = "# " + title + "\n\n" + markdown
	}
	return markdown, nil
}

// extractTitle returns the document title, or "" when none is found.
func extractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
