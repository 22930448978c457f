// Package llm provides a minimal client for hosted text-generation APIs:
// content generation and token counting.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/log"

	"github.com/gorewood/commitmsg/internal/output"
)

// Provider represents an LLM provider.
type Provider string

// Supported LLM providers.
const (
	ProviderGoogle    Provider = "google"
	ProviderAnthropic Provider = "anthropic"
)

// Request represents a completion request.
type Request struct {
	System      string  // System prompt
	Prompt      string  // User prompt
	Temperature float64 // Temperature (0 uses default)
	MaxTokens   int     // Max tokens (0 uses default)
}

// Response represents a completion response. Content may be empty when the
// API answered without any text (e.g. a blocked prompt).
type Response struct {
	Content string // Generated content
	Model   string // Model used
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	Provider   Provider
	Model      string
	APIKey     string
	Timeout    time.Duration // per request; 0 means no client-side timeout
	BaseURL    string        // overrides the provider endpoint (tests, proxies)
	HTTPClient HTTPDoer      // Google only; nil uses an http.Client with Timeout
	Logger     *log.Logger   // nil discards debug output
}

// Client is a provider-agnostic LLM client. It makes exactly one attempt per
// call; failures are returned to the caller.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	anthropic  *anthropic.Client
	logger     *log.Logger
}

// New creates a client. The model is resolved through Resolve when the
// provider is not given.
func New(opts Options) (*Client, error) {
	provider, model, err := Resolve(opts.Model, opts.Provider)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		envVar, _ := APIKeyEnvVar(provider)
		return nil, output.NewUserError(envVar + " environment variable not set")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	client := &Client{
		provider: provider,
		model:    model,
		apiKey:   opts.APIKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		logger:   logger,
	}

	switch provider {
	case ProviderGoogle:
		client.httpClient = opts.HTTPClient
		if client.httpClient == nil {
			client.httpClient = &http.Client{Timeout: opts.Timeout}
		}
	case ProviderAnthropic:
		client.anthropic = newAnthropicClient(opts.APIKey, opts.BaseURL, opts.Timeout)
	}

	return client, nil
}

// Provider returns the resolved provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Model returns the resolved model name.
func (c *Client) Model() string {
	return c.model
}

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	c.debug("generating content", "provider", c.provider, "model", c.model, "prompt_bytes", len(req.Prompt))

	switch c.provider {
	case ProviderGoogle:
		return c.completeGoogle(ctx, req)
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

// CountTokens asks the provider how many input tokens text consumes.
func (c *Client) CountTokens(ctx context.Context, text string) (int, error) {
	c.debug("counting tokens", "provider", c.provider, "model", c.model, "text_bytes", len(text))

	switch c.provider {
	case ProviderGoogle:
		return c.countTokensGoogle(ctx, text)
	case ProviderAnthropic:
		return c.countTokensAnthropic(ctx, text)
	default:
		return 0, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

// providerPrefix maps an explicit model prefix to its provider. When keep is
// set the prefix is also part of real model names ("gemini-2.5-pro"), so it
// is only stripped in front of an alias.
type providerPrefix struct {
	prefix   string
	provider Provider
	keep     bool
}

var providerPrefixes = []providerPrefix{
	{"gemini-", ProviderGoogle, true},
	{"google-", ProviderGoogle, false},
	{"claude-", ProviderAnthropic, true},
	{"anthropic-", ProviderAnthropic, false},
}

// parseProviderPrefix extracts the provider from "gemini-flash" style names.
// Returns an empty provider if no prefix matches.
func parseProviderPrefix(model string) (Provider, string) {
	modelLower := strings.ToLower(model)
	for _, p := range providerPrefixes {
		if !strings.HasPrefix(modelLower, p.prefix) {
			continue
		}
		rest := model[len(p.prefix):]
		if p.keep && !isAlias(rest, p.provider) {
			return p.provider, model
		}
		return p.provider, rest
	}
	return "", model
}

// providerPatterns checked in order; first match wins.
var providerPatterns = []struct {
	substring string
	provider  Provider
}{
	{"gemini", ProviderGoogle},
	{"flash", ProviderGoogle},
	{"claude", ProviderAnthropic},
	{"haiku", ProviderAnthropic},
	{"sonnet", ProviderAnthropic},
	{"opus", ProviderAnthropic},
}

// inferProvider guesses the provider from the model name, defaulting to Google.
func inferProvider(model string) Provider {
	modelLower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(modelLower, p.substring) {
			return p.provider
		}
	}
	return ProviderGoogle
}

// Model aliases are shorthands; full model names pass through unchanged.
var modelAliases = map[Provider]map[string]string{
	ProviderGoogle: {
		"flash":      "gemini-2.5-flash",
		"flash-lite": "gemini-2.5-flash-lite",
		"pro":        "gemini-2.5-pro",
	},
	ProviderAnthropic: {
		"haiku":  "claude-haiku-4-5",
		"sonnet": "claude-sonnet-4-5",
		"opus":   "claude-opus-4-1",
	},
}

func isAlias(model string, provider Provider) bool {
	_, ok := modelAliases[provider][strings.ToLower(model)]
	return ok
}

// resolveModelAlias expands shorthand aliases, passes through unknown names.
func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

// Resolve determines the provider and the full model name from a model name
// or alias and an optional explicit provider.
func Resolve(model string, provider Provider) (Provider, string, error) {
	parsed, stripped := parseProviderPrefix(model)

	switch {
	case provider == "" && parsed != "":
		provider, model = parsed, stripped
	case provider == "":
		provider = inferProvider(model)
	case provider == parsed:
		model = stripped
	}

	if _, ok := envVarForProvider[provider]; !ok {
		return "", "", output.NewUserError(fmt.Sprintf("unsupported provider: %s (supported: %s)",
			provider, strings.Join(SupportedProviders(), ", ")))
	}

	model = resolveModelAlias(model, provider)
	if model == "" {
		return "", "", output.NewUserError("model name is empty")
	}
	return provider, model, nil
}

// envVarForProvider maps providers to their API key environment variables.
var envVarForProvider = map[Provider]string{
	ProviderGoogle:    "GEMINI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// APIKeyEnvVar returns the environment variable holding the provider's key.
func APIKeyEnvVar(provider Provider) (string, error) {
	envVar, ok := envVarForProvider[provider]
	if !ok {
		return "", output.NewUserError(fmt.Sprintf("unsupported provider: %s", provider))
	}
	return envVar, nil
}

// SupportedProviders returns a list of supported providers.
func SupportedProviders() []string {
	return []string{string(ProviderGoogle), string(ProviderAnthropic)}
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}
	c.debug("api response", "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(started))

	if resp.StatusCode != http.StatusOK {
		// Truncate to keep quota/billing details and large bodies out of the terminal.
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("API error (status %d): %s", resp.StatusCode, errBody))
	}

	return respBody, nil
}

// debug logs at debug level when a logger is configured.
func (c *Client) debug(msg string, keyvals ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}
