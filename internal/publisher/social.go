package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"newsroom/internal/newsroom"
)

const defaultSocialBaseURL = "https://graph.facebook.com"

// Social publishes posts to a page's feed via a graph-style endpoint that
// takes form parameters and a page access token.
type Social struct {
	client  *http.Client
	baseURL string
	pageID  string
	token   string
}

func newSocial(ctx context.Context, cfg Config, secrets newsroom.SecretResolver, client *http.Client) (*Social, error) {
	if cfg.SocialPageID == "" {
		return nil, fmt.Errorf("social page id is not configured")
	}

	token, err := secrets.Resolve(ctx, cfg.SocialTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("error resolving social page token: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("social page token is empty")
	}

	baseURL := cfg.SocialBaseURL
	if baseURL == "" {
		baseURL = defaultSocialBaseURL
	}

	return &Social{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		pageID:  cfg.SocialPageID,
		token:   token,
	}, nil
}

func (p *Social) Name() string { return string(TargetSocial) }

func (p *Social) Publish(ctx context.Context, post newsroom.Post) newsroom.PublishResult {
	// The teaser is the post body when there is one; the title carries it
	// otherwise. The link renders as the attached preview.
	message := post.SocialCopy
	if message == "" {
		message = post.Title
	}

	form := url.Values{
		"message":      {message},
		"link":         {post.Link},
		"access_token": {p.token},
	}

	endpoint := fmt.Sprintf("%s/%s/feed", p.baseURL, p.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return failed(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "social publish failed", "title", post.Title, "error", err)
		return failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.ErrorContext(ctx, "social publish rejected", "title", post.Title, "status_code", resp.StatusCode, "body", string(body))
		return failed(fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, body))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return failed(fmt.Sprintf("error decoding response: %s", err))
	}

	slog.InfoContext(ctx, "published to social feed", "title", post.Title, "post_id", created.ID)

	return newsroom.PublishResult{
		Status: newsroom.PublishSuccess,
		PostID: created.ID,
	}
}
