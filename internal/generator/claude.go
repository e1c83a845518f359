package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Fixed sampling temperature for every generation call.
const samplingTemperature = 0.7

// Claude adapts the Anthropic client to [newsroom.TextGenerator].
type Claude struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewClaude(client anthropic.Client, model anthropic.Model) *Claude {
	return &Claude{client: client, model: model}
}

func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   1024,
		Temperature: anthropic.Float(samplingTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error calling model: %w", err)
	}

	var out strings.Builder
	for _, content := range resp.Content {
		out.WriteString(content.Text)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}

	return text, nil
}
