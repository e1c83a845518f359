// Package pipeline sequences one run: validate configuration, collect
// feeds, select the most recent items, then generate and publish each item
// in turn.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"newsroom/internal/logger"
	"newsroom/internal/newsroom"
	"newsroom/internal/selector"
)

type (
	// Collector produces normalized items from the configured sources.
	Collector interface {
		Collect(ctx context.Context, urls []string) []newsroom.FeedItem
	}

	// ItemGenerator produces the generation outcomes for one item.
	ItemGenerator interface {
		ForItem(ctx context.Context, item newsroom.FeedItem, snippet string) newsroom.GeneratedContent
	}

	// Extractor optionally enriches the prompt with the linked page's text.
	Extractor interface {
		Content(ctx context.Context, pageURL string) (string, error)
	}

	// PublisherFactory resolves target credentials and builds the
	// publisher for a run. It returns (nil, nil) when publishing is
	// disabled, and an error when required configuration is missing.
	PublisherFactory func(ctx context.Context) (newsroom.Publisher, error)
)

type Config struct {
	FeedURLs    []string
	SelectCount int
}

// Pipeline is the unit of work behind the HTTP trigger. Collaborators are
// injected so runs can be exercised with fakes.
type Pipeline struct {
	cfg       Config
	collector Collector
	generator ItemGenerator
	extractor Extractor // nil when content extraction is disabled
	publisher PublisherFactory
}

func New(cfg Config, c Collector, g ItemGenerator, e Extractor, pf PublisherFactory) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		collector: c,
		generator: g,
		extractor: e,
		publisher: pf,
	}
}

// Run executes one full pass over the configured feeds.
//
// Configuration problems abort the run before any feed is fetched and
// come back as {Success: false}. Everything past that point is contained
// per feed or per item: the run always completes and reports what happened
// to each item.
func (p *Pipeline) Run(ctx context.Context) newsroom.RunResult {
	ctx = logger.Ctx(ctx, slog.String("run_id", uuid.NewString()))
	slog.InfoContext(ctx, "run started", "feeds", len(p.cfg.FeedURLs))

	// All required credentials and target config resolve up front, so a
	// bad setup costs nothing downstream.
	pub, err := p.publisher(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "run aborted", "error", err)
		return newsroom.RunResult{
			Success: false,
			Message: fmt.Sprintf("configuration error: %s", err),
		}
	}

	collected := p.collector.Collect(ctx, p.cfg.FeedURLs)
	selected := selector.TopN(collected, p.cfg.SelectCount)
	slog.InfoContext(ctx, "items selected", "found", len(collected), "selected", len(selected))

	// One item fully processed before the next begins.
	results := make([]newsroom.ItemResult, 0, len(selected))
	for _, item := range selected {
		results = append(results, p.processItem(ctx, item, pub))
	}

	summary := summarize(len(collected), results)
	slog.InfoContext(ctx, "run completed",
		"found", summary.TotalNewsFound,
		"articles", summary.ArticlesGenerated,
		"copies", summary.SocialCopiesGenerated,
		"published", summary.PostsPublished,
	)

	return newsroom.RunResult{
		Success: true,
		Message: "feed analysis, content generation, and publishing completed",
		Summary: &summary,
		Results: results,
	}
}

func (p *Pipeline) processItem(ctx context.Context, item newsroom.FeedItem, pub newsroom.Publisher) newsroom.ItemResult {
	slog.InfoContext(ctx, "processing item", "title", item.Title, "source", item.Source)

	var snippet string
	if p.extractor != nil {
		text, err := p.extractor.Content(ctx, item.Link)
		if err != nil {
			// Enrichment only; the feed summary still works.
			slog.WarnContext(ctx, "content extraction failed", "link", item.Link, "error", err)
		} else {
			snippet = text
		}
	}

	content := p.generator.ForItem(ctx, item, snippet)

	return newsroom.ItemResult{
		Title:        item.Title,
		OriginalLink: item.Link,
		Source:       item.Source,
		Article:      content.Article,
		SocialCopy:   content.SocialCopy,
		Publication:  p.publish(ctx, pub, content),
	}
}

func (p *Pipeline) publish(ctx context.Context, pub newsroom.Publisher, content newsroom.GeneratedContent) newsroom.PublishResult {
	if pub == nil {
		return newsroom.PublishResult{
			Status: newsroom.PublishSkipped,
			Reason: "publishing disabled",
		}
	}

	// Nothing goes out for an item whose article never materialized.
	if content.Article.Status != newsroom.GenerationOK {
		return newsroom.PublishResult{
			Status: newsroom.PublishSkipped,
			Reason: "article generation failed",
		}
	}

	post := newsroom.Post{
		Title:   content.Item.Title,
		Article: content.Article.Text,
		Link:    content.Item.Link,
	}
	if content.SocialCopy.Status == newsroom.GenerationOK {
		post.SocialCopy = content.SocialCopy.Text
	}

	return pub.Publish(ctx, post)
}

func summarize(totalFound int, results []newsroom.ItemResult) newsroom.RunSummary {
	summary := newsroom.RunSummary{TotalNewsFound: totalFound}
	for _, r := range results {
		if r.Article.Status == newsroom.GenerationOK {
			summary.ArticlesGenerated++
		}
		if r.SocialCopy.Status == newsroom.GenerationOK {
			summary.SocialCopiesGenerated++
		}
		if r.Publication.Status == newsroom.PublishSuccess {
			summary.PostsPublished++
		}
	}

	return summary
}
