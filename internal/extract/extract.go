// Package extract pulls the readable body text out of an item's linked page,
// giving the generator more to work with than the feed's snippet.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// Cap on how much page text gets folded into a prompt.
const maxContentLength = 6 * 1024

// Extractor fetches pages and runs readability extraction on them.
type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Extractor{client: client}
}

// Content fetches pageURL and returns its readable text, truncated. Any
// failure here is recoverable: callers fall back to the feed summary.
func (e *Extractor) Content(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("error extracting content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > maxContentLength {
		text = text[:maxContentLength]
	}

	return text, nil
}
