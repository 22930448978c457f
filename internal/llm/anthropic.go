package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/gorewood/commitmsg/internal/output"
)

const anthropicDefaultMaxTokens = 1024

// newAnthropicClient builds an SDK client with retries disabled.
func newAnthropicClient(apiKey, baseURL string, timeout time.Duration) *anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := anthropic.NewClient(opts...)
	return &client
}

func anthropicMessages(prompt string) []anthropic.MessageParam {
	return []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}
}

func (c *Client) completeAnthropic(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  anthropicMessages(req.Prompt),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}

	message, err := c.anthropic.Messages.New(ctx, params)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("API error: "+err.Error(), err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	c.debug("api usage", "input_tokens", message.Usage.InputTokens, "output_tokens", message.Usage.OutputTokens)
	return &Response{Content: content.String(), Model: c.model}, nil
}

func (c *Client) countTokensAnthropic(ctx context.Context, text string) (int, error) {
	count, err := c.anthropic.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model:    anthropic.Model(c.model),
		Messages: anthropicMessages(text),
	})
	if err != nil {
		return 0, output.NewSystemErrorWithCause("API error: "+err.Error(), err)
	}
	return int(count.InputTokens), nil
}
