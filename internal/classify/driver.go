package classify

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/connectsphere/connect-cli/pkg/anthropic"
	"github.com/connectsphere/connect-cli/pkg/openai"
)

// Completer produces one text completion for a system/user prompt pair.
// Both supported model providers hide behind this.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIDriver adapts an OpenAI-compatible chat client.
type OpenAIDriver struct {
	Client openai.Client
	Model  string
}

func (d *OpenAIDriver) Complete(ctx context.Context, system, user string) (string, error) {
	temp := 0.1
	resp, err := d.Client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.Model,
		Messages: []openai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("classify: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicDriver adapts the Anthropic SDK client.
type AnthropicDriver struct {
	Client anthropic.Client
	Model  string
}

func (d *AnthropicDriver) Complete(ctx context.Context, system, user string) (string, error) {
	temp := 0.1
	resp, err := d.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.Model,
		MaxTokens:   4096,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(d.Model, "classify")
	text := resp.Text()
	if text == "" {
		return "", eris.New("classify: completion returned no text")
	}
	return text, nil
}
