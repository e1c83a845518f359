// Newsroom polls a fixed set of RSS feeds, turns the freshest items into
// long-form articles and short social teasers with a generative model, and
// publishes the results to a configured target.
//
// It exposes a single POST / trigger route; one request is one stateless
// run of the whole pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"

	"newsroom/internal/collector"
	"newsroom/internal/extract"
	"newsroom/internal/generator"
	"newsroom/internal/logger"
	"newsroom/internal/newsroom"
	"newsroom/internal/pipeline"
	"newsroom/internal/publisher"
	"newsroom/internal/secrets"
	"newsroom/internal/server"
)

type config struct {
	Port int `env:"PORT, default=8080"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`

	// Feed sources and selection. An empty FEED_URLS falls back to the
	// built-in list.
	FeedURLs    []string `env:"FEED_URLS"`
	SelectCount int      `env:"SELECT_COUNT, default=5"`

	// Stage toggles.
	GenerateCopy   bool   `env:"GENERATE_SOCIAL_COPY, default=true"`
	ExtractContent bool   `env:"EXTRACT_CONTENT, default=false"`
	PublishTarget  string `env:"PUBLISH_TARGET, default=wordpress"`

	// Social target specifics. Validated at run start, not here: a missing
	// page id fails the run, not the process.
	SocialBaseURL string `env:"SOCIAL_BASE_URL"`
	SocialPageID  string `env:"SOCIAL_PAGE_ID"`

	// When set, secrets resolve from this JSON file instead of the
	// environment.
	SecretsFile string `env:"SECRETS_FILE"`

	Model string `env:"MODEL"`
}

var defaultFeeds = []string{
	"https://www.excelsior.com.mx/rss.xml",
	"https://elpais.com/rss/feed.html?feedId=1022",
	"https://www.eleconomista.com.mx/rss.html",
	"https://www.jornada.com.mx/v7.0/cgi/rss.php",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewContextHandler(handler))
	slog.SetDefault(l)

	// Start the application
	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	slog.Info("running", "config", cfg)

	feeds := cfg.FeedURLs
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}

	// Secrets come from a mounted file when configured, the environment
	// otherwise.
	var resolver newsroom.SecretResolver = secrets.EnvResolver{}
	if cfg.SecretsFile != "" {
		fr, err := secrets.NewFileResolver(cfg.SecretsFile)
		if err != nil {
			return fmt.Errorf("error loading secrets file: %s", err)
		}
		resolver = fr
	}

	// Process-wide client handle; the SDK picks its key up from the
	// environment.
	model := anthropic.Model("claude-haiku-4-5")
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}
	gen := generator.New(generator.NewClaude(anthropic.NewClient(), model), cfg.GenerateCopy)

	var ext pipeline.Extractor
	if cfg.ExtractContent {
		ext = extract.New(nil)
	}

	// Target credentials resolve per run inside the factory, so a broken
	// setup fails the run early instead of the process.
	pubCfg := publisher.Config{
		Target:               publisher.Target(cfg.PublishTarget),
		WordPressCredsSecret: "wordpress-api-credentials",
		SocialBaseURL:        cfg.SocialBaseURL,
		SocialPageID:         cfg.SocialPageID,
		SocialTokenSecret:    "social-page-token",
	}
	pubFactory := func(ctx context.Context) (newsroom.Publisher, error) {
		return publisher.FromConfig(ctx, pubCfg, resolver, nil)
	}

	pipe := pipeline.New(
		pipeline.Config{FeedURLs: feeds, SelectCount: cfg.SelectCount},
		collector.New(nil),
		gen,
		ext,
		pubFactory,
	)

	s := server.New(cfg.Port, pipe)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Start the server
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
