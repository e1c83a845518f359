// Package newsroom holds the domain types shared between the pipeline
// stages, and the interfaces for the external collaborators they talk to.
package newsroom

import (
	"context"
	"time"
)

type (
	// FeedItem is one normalized entry pulled from a syndication feed.
	FeedItem struct {
		Title string `json:"title"`
		Link  string `json:"link"`
		// Nil when the feed carried no parseable publication date.
		PublishedAt *time.Time `json:"published_at,omitempty"`
		Summary     string     `json:"summary,omitempty"`
		Source      string     `json:"source"`
	}

	// Generation is the outcome of a single text-generation call.
	//
	// A failed call is data, not an error: the run keeps going and the
	// failure travels with the item into the final report.
	Generation struct {
		Status GenerationStatus `json:"status"`
		Text   string           `json:"text,omitempty"`
		Reason string           `json:"reason,omitempty"`
	}

	// GeneratedContent pairs an item with both of its generation outcomes.
	GeneratedContent struct {
		Item       FeedItem   `json:"item"`
		Article    Generation `json:"article"`
		SocialCopy Generation `json:"social_copy"`
	}

	// PublishResult is the outcome of pushing one item to the target.
	PublishResult struct {
		Status PublishStatus `json:"status"`
		PostID string        `json:"post_id,omitempty"`
		Link   string        `json:"link,omitempty"`
		Error  string        `json:"error,omitempty"`
		Reason string        `json:"reason,omitempty"`
	}

	// ItemResult is everything that happened to one selected item.
	ItemResult struct {
		Title        string        `json:"title"`
		OriginalLink string        `json:"originalLink"`
		Source       string        `json:"source"`
		Article      Generation    `json:"newsArticle"`
		SocialCopy   Generation    `json:"socialMediaCopy"`
		Publication  PublishResult `json:"publication"`
	}

	// RunSummary aggregates counts over one run.
	RunSummary struct {
		TotalNewsFound        int `json:"totalNewsFound"`
		ArticlesGenerated     int `json:"newsArticlesGenerated"`
		SocialCopiesGenerated int `json:"socialMediaCopiesGenerated"`
		PostsPublished        int `json:"postsPublished"`
	}

	// RunResult is the full report for one pipeline invocation.
	RunResult struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Summary *RunSummary  `json:"summary,omitempty"`
		Results []ItemResult `json:"results,omitempty"`
	}
)

type GenerationStatus string

const (
	GenerationOK GenerationStatus = "generated"
	// The call was made and failed.
	GenerationFailed GenerationStatus = "failed"
	// The call was never made because an upstream stage failed.
	GenerationNotAttempted GenerationStatus = "not_attempted"
)

type PublishStatus string

const (
	PublishSuccess PublishStatus = "success"
	PublishFailed  PublishStatus = "failed"
	PublishSkipped PublishStatus = "skipped"
)

// Post is the unit handed to a publisher: the generated article plus the
// pieces of the source item a target may want to surface.
type Post struct {
	Title      string
	Article    string
	SocialCopy string // empty when copy generation was disabled or failed
	Link       string
}

type (
	// TextGenerator is the opaque text-completion collaborator.
	TextGenerator interface {
		Generate(ctx context.Context, prompt string) (string, error)
	}

	// Publisher pushes one post to an external target.
	//
	// Implementations report failures through the result, never by
	// panicking or returning an error past this boundary.
	Publisher interface {
		Name() string
		Publish(ctx context.Context, post Post) PublishResult
	}

	// SecretResolver resolves named secrets at run start.
	SecretResolver interface {
		Resolve(ctx context.Context, name string) (string, error)
	}
)
