// Package publisher pushes generated posts to the configured external
// target. One capability, pluggable targets.
package publisher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"newsroom/internal/newsroom"
)

// Target names a publishing destination.
type Target string

const (
	TargetNone      Target = "none"
	TargetWordPress Target = "wordpress"
	TargetSocial    Target = "social"
)

// Config selects the target and names the secrets its credentials live in.
type Config struct {
	Target Target

	// WordPress: one JSON secret holding api_url, username, app_password.
	WordPressCredsSecret string

	// Social feed: page id from plain config, access token from a secret.
	SocialBaseURL     string
	SocialPageID      string
	SocialTokenSecret string
}

// FromConfig resolves the target's credentials and builds its publisher.
//
// This runs before any other stage so that a bad or incomplete
// configuration fails the run without wasting feed fetches or generation
// calls. TargetNone yields a nil publisher and no error.
func FromConfig(ctx context.Context, cfg Config, secrets newsroom.SecretResolver, client *http.Client) (newsroom.Publisher, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	switch cfg.Target {
	case TargetNone, "":
		return nil, nil
	case TargetWordPress:
		return newWordPress(ctx, cfg, secrets, client)
	case TargetSocial:
		return newSocial(ctx, cfg, secrets, client)
	default:
		return nil, fmt.Errorf("unknown publish target %q", cfg.Target)
	}
}
