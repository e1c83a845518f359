package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"newsroom/internal/newsroom"
)

type wpCredentials struct {
	APIURL      string `json:"api_url"`
	Username    string `json:"username"`
	AppPassword string `json:"app_password"`
}

// WordPress publishes posts to a WordPress-style create-post endpoint with
// basic auth (username + application password).
type WordPress struct {
	client *http.Client
	creds  wpCredentials
}

func newWordPress(ctx context.Context, cfg Config, secrets newsroom.SecretResolver, client *http.Client) (*WordPress, error) {
	raw, err := secrets.Resolve(ctx, cfg.WordPressCredsSecret)
	if err != nil {
		return nil, fmt.Errorf("error resolving wordpress credentials: %w", err)
	}

	var creds wpCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("error parsing wordpress credentials: %w", err)
	}
	if creds.APIURL == "" || creds.Username == "" || creds.AppPassword == "" {
		return nil, fmt.Errorf("wordpress credentials are incomplete")
	}

	return &WordPress{client: client, creds: creds}, nil
}

func (p *WordPress) Name() string { return string(TargetWordPress) }

func (p *WordPress) Publish(ctx context.Context, post newsroom.Post) newsroom.PublishResult {
	payload, _ := json.Marshal(struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Status  string `json:"status"`
	}{
		Title:   post.Title,
		Content: postContent(post),
		Status:  "publish",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.creds.APIURL, bytes.NewReader(payload))
	if err != nil {
		return failed(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.creds.Username, p.creds.AppPassword)

	resp, err := p.client.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "wordpress publish failed", "title", post.Title, "error", err)
		return failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.ErrorContext(ctx, "wordpress publish rejected", "title", post.Title, "status_code", resp.StatusCode, "body", string(body))
		return failed(fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, body))
	}

	var created struct {
		ID   int64  `json:"id"`
		Link string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return failed(fmt.Sprintf("error decoding response: %s", err))
	}

	slog.InfoContext(ctx, "published to wordpress", "title", post.Title, "post_id", created.ID)

	return newsroom.PublishResult{
		Status: newsroom.PublishSuccess,
		PostID: strconv.FormatInt(created.ID, 10),
		Link:   created.Link,
	}
}

// The article is the primary content; the canonical link and the social
// copy ride along at the bottom of the post.
func postContent(post newsroom.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>\n", post.Article)
	fmt.Fprintf(&b, "<p><strong>Original link:</strong> <a href=%q>%s</a></p>\n", post.Link, post.Link)
	if post.SocialCopy != "" {
		fmt.Fprintf(&b, "<p><strong>Social media copy:</strong> %s</p>\n", post.SocialCopy)
	}

	return b.String()
}

func failed(reason string) newsroom.PublishResult {
	return newsroom.PublishResult{Status: newsroom.PublishFailed, Error: reason}
}
