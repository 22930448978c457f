package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorewood/commitmsg/internal/output"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Google Gemini API types.
type googleRequest struct {
	Contents         []googleContent      `json:"contents"`
	SystemInstruct   *googleContent       `json:"systemInstruction,omitempty"`
	GenerationConfig *googleGenerationCfg `json:"generationConfig,omitempty"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenerationCfg struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *googleError `json:"error"`
}

type googleCountRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleCountResponse struct {
	TotalTokens *int         `json:"totalTokens"`
	Error       *googleError `json:"error"`
}

type googleError struct {
	Message string `json:"message"`
}

func (c *Client) googleURL(method string) string {
	base := c.baseURL
	if base == "" {
		base = googleBaseURL
	}
	return fmt.Sprintf("%s/models/%s:%s", base, c.model, method)
}

func (c *Client) googleHeaders() map[string]string {
	return map[string]string{"x-goog-api-key": c.apiKey}
}

func (c *Client) completeGoogle(ctx context.Context, req Request) (*Response, error) {
	respBody, err := c.doRequest(ctx, c.googleURL("generateContent"), buildGoogleRequest(req), c.googleHeaders())
	if err != nil {
		return nil, err
	}

	return parseGoogleResponse(respBody, c.model)
}

func (c *Client) countTokensGoogle(ctx context.Context, text string) (int, error) {
	body := googleCountRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: text}}, Role: "user"}},
	}

	respBody, err := c.doRequest(ctx, c.googleURL("countTokens"), body, c.googleHeaders())
	if err != nil {
		return 0, err
	}

	return parseGoogleCountResponse(respBody)
}

func buildGoogleRequest(req Request) googleRequest {
	body := googleRequest{
		Contents: []googleContent{{
			Parts: []googlePart{{Text: req.Prompt}},
			Role:  "user",
		}},
	}

	if req.System != "" {
		body.SystemInstruct = &googleContent{
			Parts: []googlePart{{Text: req.System}},
		}
	}

	if req.MaxTokens > 0 || req.Temperature > 0 {
		body.GenerationConfig = &googleGenerationCfg{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		}
	}

	return body
}

// parseGoogleResponse joins the text parts of the first candidate.
// A response without candidates or parts yields empty content, not an error.
func parseGoogleResponse(respBody []byte, model string) (*Response, error) {
	var result googleResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse response", err)
	}

	if result.Error != nil {
		return nil, output.NewSystemError("API error: " + result.Error.Message)
	}

	if len(result.Candidates) == 0 {
		return &Response{Model: model}, nil
	}

	var content strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	return &Response{Content: content.String(), Model: model}, nil
}

func parseGoogleCountResponse(respBody []byte) (int, error) {
	var result googleCountResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, output.NewSystemErrorWithCause("failed to parse response", err)
	}

	if result.Error != nil {
		return 0, output.NewSystemError("API error: " + result.Error.Message)
	}

	if result.TotalTokens == nil {
		return 0, output.NewSystemError("token count missing from response")
	}

	return *result.TotalTokens, nil
}
