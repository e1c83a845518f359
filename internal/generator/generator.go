// Package generator turns selected feed items into long-form articles and
// short social teasers via the text-generation collaborator.
package generator

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	goaway "github.com/TwiN/go-away"

	"newsroom/internal/newsroom"
)

//go:embed article_prompt.txt
var articlePrompt string

//go:embed social_copy_prompt.txt
var socialCopyPrompt string

// Generator runs up to two generation calls per item: the article, then a
// social teaser derived from it.
type Generator struct {
	gen         newsroom.TextGenerator
	copyEnabled bool
}

func New(gen newsroom.TextGenerator, copyEnabled bool) *Generator {
	return &Generator{gen: gen, copyEnabled: copyEnabled}
}

// ForItem produces the generation outcomes for one item. A non-empty snippet
// replaces the feed summary in the article prompt.
//
// Each call is a single attempt: a failure becomes a failed Generation and
// processing moves on. When the article call fails, the teaser is marked
// not_attempted rather than generated from the raw item; it only ever
// derives from a successfully generated article.
func (g *Generator) ForItem(ctx context.Context, item newsroom.FeedItem, snippet string) newsroom.GeneratedContent {
	content := newsroom.GeneratedContent{Item: item}

	if snippet == "" {
		snippet = item.Summary
	}

	prompt := fmt.Sprintf(articlePrompt, item.Title, snippet, item.Link)
	article, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "article generation failed", "title", item.Title, "error", err)
		content.Article = newsroom.Generation{
			Status: newsroom.GenerationFailed,
			Reason: err.Error(),
		}
		content.SocialCopy = newsroom.Generation{
			Status: newsroom.GenerationNotAttempted,
			Reason: "article generation failed",
		}

		return content
	}

	slog.InfoContext(ctx, "article generated", "title", item.Title, "preview", preview(article))
	content.Article = newsroom.Generation{Status: newsroom.GenerationOK, Text: article}
	content.SocialCopy = g.socialCopy(ctx, item, article)

	return content
}

func (g *Generator) socialCopy(ctx context.Context, item newsroom.FeedItem, article string) newsroom.Generation {
	if !g.copyEnabled {
		return newsroom.Generation{
			Status: newsroom.GenerationNotAttempted,
			Reason: "social copy generation disabled",
		}
	}

	copyText, err := g.gen.Generate(ctx, fmt.Sprintf(socialCopyPrompt, article))
	if err != nil {
		slog.ErrorContext(ctx, "social copy generation failed", "title", item.Title, "error", err)
		return newsroom.Generation{
			Status: newsroom.GenerationFailed,
			Reason: err.Error(),
		}
	}

	// The teaser goes out unreviewed, so keep the output clean before it
	// reaches a publish target.
	if goaway.IsProfane(copyText) {
		slog.WarnContext(ctx, "discarding profane social copy", "title", item.Title)
		return newsroom.Generation{
			Status: newsroom.GenerationFailed,
			Reason: "profanity detected in generated copy",
		}
	}

	slog.InfoContext(ctx, "social copy generated", "title", item.Title, "preview", preview(copyText))

	return newsroom.Generation{Status: newsroom.GenerationOK, Text: copyText}
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}

	return s
}
