// Package collector fetches the configured feed sources and normalizes
// their entries into [newsroom.FeedItem] records.
package collector

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"newsroom/internal/newsroom"
)

// Collector fetches syndication feeds over a client with a bounded timeout.
type Collector struct {
	client *http.Client
}

func New(client *http.Client) *Collector {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Collector{client: client}
}

// Collect fetches every source and returns the normalized items, grouped by
// source order. A source that cannot be fetched or parsed is logged as a
// warning and skipped; the run continues with whatever succeeded. A source
// with zero items is not an error.
func (c *Collector) Collect(ctx context.Context, urls []string) []newsroom.FeedItem {
	// Fan out across sources. Results land in a slot per source so the
	// output grouping doesn't depend on completion order.
	perSource := make([][]newsroom.FeedItem, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			items, err := c.fetch(gCtx, url)
			if err != nil {
				slog.WarnContext(gCtx, "skipping feed", "url", url, "error", err)
				return nil
			}
			perSource[i] = items

			return nil
		})
	}
	_ = g.Wait() // fetch failures never propagate

	var items []newsroom.FeedItem
	for _, batch := range perSource {
		items = append(items, batch...)
	}

	return items
}

func (c *Collector) fetch(ctx context.Context, url string) ([]newsroom.FeedItem, error) {
	parser := gofeed.NewParser()
	parser.Client = c.client

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	source := sanitize(feed.Title)
	items := make([]newsroom.FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, newsroom.FeedItem{
			Title:       sanitize(entry.Title),
			Link:        strings.TrimSpace(entry.Link),
			PublishedAt: publishTime(entry),
			Summary:     sanitize(entry.Description),
			Source:      source,
		})
	}

	slog.InfoContext(ctx, "feed parsed", "url", url, "title", source, "items", len(items))

	return items, nil
}

// Prefers the parsed publication time, then a best-effort parse of the raw
// date string. Nil when neither works; the selector treats nil as oldest.
func publishTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	if entry.Published == "" {
		return nil
	}

	t, err := dateparse.ParseAny(entry.Published)
	if err != nil {
		return nil
	}

	return &t
}

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from the string, usually a description.
//
// Also limits the length of the string so there's not a massive chunk of text being output.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = stripPolicy.Sanitize(s)
	if len(s) > 2048 {
		s = s[:2048]
	}

	return s
}
