//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/gorewood/commitmsg/internal/output"
)

// mockHTTPDoer implements HTTPDoer for testing.
type mockHTTPDoer struct {
	response *http.Response
	err      error
	calls    int
}

func (m *mockHTTPDoer) Do(*http.Request) (*http.Response, error) {
	m.calls++
	return m.response, m.err
}

// mockResponse creates a mock HTTP response with the given status and body.
// The body uses io.NopCloser so no explicit close is required.
func mockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// capturingHTTPDoer captures the request for inspection.
type capturingHTTPDoer struct {
	capturedReq  **http.Request
	capturedBody *string
	response     *http.Response
}

func (c *capturingHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	*c.capturedReq = req
	if c.capturedBody != nil && req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		*c.capturedBody = string(data)
	}
	return c.response, nil
}

func TestParseProviderPrefix(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		wantProvider Provider
		wantModel    string
	}{
		{name: "gemini alias", model: "gemini-flash", wantProvider: ProviderGoogle, wantModel: "flash"},
		{name: "google prefix", model: "google-pro", wantProvider: ProviderGoogle, wantModel: "pro"},
		{name: "claude alias", model: "claude-haiku", wantProvider: ProviderAnthropic, wantModel: "haiku"},
		{name: "anthropic prefix", model: "anthropic-sonnet", wantProvider: ProviderAnthropic, wantModel: "sonnet"},
		{name: "full gemini name kept", model: "gemini-2.0-flash", wantProvider: ProviderGoogle, wantModel: "gemini-2.0-flash"},
		{name: "full claude name kept", model: "claude-3-5-haiku-latest", wantProvider: ProviderAnthropic, wantModel: "claude-3-5-haiku-latest"},
		{name: "no matching prefix", model: "flash", wantProvider: "", wantModel: "flash"},
		{name: "case insensitive", model: "Gemini-Flash", wantProvider: ProviderGoogle, wantModel: "Flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model := parseProviderPrefix(tt.model)
			if provider != tt.wantProvider {
				t.Errorf("parseProviderPrefix(%q) provider = %q, want %q", tt.model, provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("parseProviderPrefix(%q) model = %q, want %q", tt.model, model, tt.wantModel)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider Provider
	}{
		{model: "gemini-pro", wantProvider: ProviderGoogle},
		{model: "flash-lite", wantProvider: ProviderGoogle},
		{model: "claude-3-opus", wantProvider: ProviderAnthropic},
		{model: "haiku", wantProvider: ProviderAnthropic},
		{model: "Sonnet", wantProvider: ProviderAnthropic},
		{model: "unknown-model-xyz", wantProvider: ProviderGoogle},
		{model: "", wantProvider: ProviderGoogle},
	}

	for _, tt := range tests {
		if got := inferProvider(tt.model); got != tt.wantProvider {
			t.Errorf("inferProvider(%q) = %q, want %q", tt.model, got, tt.wantProvider)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		provider     Provider
		wantProvider Provider
		wantModel    string
		wantErr      bool
	}{
		{name: "default alias", model: "gemini-flash", wantProvider: ProviderGoogle, wantModel: "gemini-2.5-flash"},
		{name: "bare alias inferred", model: "pro", wantProvider: ProviderGoogle, wantModel: "gemini-2.5-pro"},
		{name: "anthropic alias inferred", model: "haiku", wantProvider: ProviderAnthropic, wantModel: "claude-haiku-4-5"},
		{name: "full name passes through", model: "gemini-2.0-flash", wantProvider: ProviderGoogle, wantModel: "gemini-2.0-flash"},
		{name: "explicit provider with alias", model: "sonnet", provider: ProviderAnthropic, wantProvider: ProviderAnthropic, wantModel: "claude-sonnet-4-5"},
		{name: "explicit provider with prefixed alias", model: "claude-opus", provider: ProviderAnthropic, wantProvider: ProviderAnthropic, wantModel: "claude-opus-4-1"},
		{name: "explicit provider wins over prefix", model: "gemini-custom", provider: ProviderAnthropic, wantProvider: ProviderAnthropic, wantModel: "gemini-custom"},
		{name: "unsupported provider", model: "gpt-5", provider: Provider("openai"), wantErr: true},
		{name: "empty model", model: "", provider: ProviderGoogle, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := Resolve(tt.model, tt.provider)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if output.GetExitCode(err) != output.ExitUserError {
					t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
				}
				return
			}
			if provider != tt.wantProvider || model != tt.wantModel {
				t.Errorf("Resolve(%q, %q) = (%q, %q), want (%q, %q)",
					tt.model, tt.provider, provider, model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider Provider
		want     string
		wantErr  bool
	}{
		{provider: ProviderGoogle, want: "GEMINI_API_KEY"},
		{provider: ProviderAnthropic, want: "ANTHROPIC_API_KEY"},
		{provider: Provider("local"), wantErr: true},
	}

	for _, tt := range tests {
		got, err := APIKeyEnvVar(tt.provider)
		if (err != nil) != tt.wantErr {
			t.Errorf("APIKeyEnvVar(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	client, err := New(Options{Model: "flash", APIKey: "AIza-test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.Provider() != ProviderGoogle {
		t.Errorf("Provider() = %q, want google", client.Provider())
	}
	if client.Model() != "gemini-2.5-flash" {
		t.Errorf("Model() = %q, want gemini-2.5-flash", client.Model())
	}
	if client.httpClient == nil {
		t.Error("google client should have an HTTP client")
	}
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(Options{Model: "haiku"})
	if err == nil {
		t.Fatal("New() expected error without API key")
	}
	if !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("error = %q, want to name ANTHROPIC_API_KEY", err.Error())
	}
}

func TestDoRequest_Success(t *testing.T) {
	client := &Client{
		httpClient: &mockHTTPDoer{
			response: mockResponse(http.StatusOK, `{"result": "success"}`),
		},
	}

	body, err := client.doRequest(context.Background(), "https://example.com/api", map[string]string{"key": "value"}, nil)
	if err != nil {
		t.Fatalf("doRequest() error = %v", err)
	}

	expected := `{"result": "success"}`
	if string(body) != expected {
		t.Errorf("doRequest() body = %q, want %q", string(body), expected)
	}
}

func TestDoRequest_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    string
	}{
		{
			name:       "400 bad request",
			statusCode: http.StatusBadRequest,
			body:       `{"error": {"message": "API key not valid"}}`,
			wantErr:    "API error (status 400)",
		},
		{
			name:       "403 forbidden",
			statusCode: http.StatusForbidden,
			body:       `{"error": {"message": "permission denied"}}`,
			wantErr:    "API error (status 403)",
		},
		{
			name:       "429 quota exceeded",
			statusCode: http.StatusTooManyRequests,
			body:       `{"error": {"message": "Resource has been exhausted"}}`,
			wantErr:    "API error (status 429)",
		},
		{
			name:       "500 server error",
			statusCode: http.StatusInternalServerError,
			body:       `{"error": {"message": "internal"}}`,
			wantErr:    "API error (status 500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockHTTPDoer{response: mockResponse(tt.statusCode, tt.body)}
			client := &Client{httpClient: doer}

			_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
			if err == nil {
				t.Fatal("doRequest() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("doRequest() error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
			if output.GetExitCode(err) != output.ExitSystemError {
				t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
			}
			if doer.calls != 1 {
				t.Errorf("HTTP calls = %d, want exactly 1 (no retries)", doer.calls)
			}
		})
	}
}

func TestDoRequest_NetworkError(t *testing.T) {
	networkErr := errors.New("connection refused")
	client := &Client{
		httpClient: &mockHTTPDoer{
			err: networkErr,
		},
	}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
	if err == nil {
		t.Fatal("doRequest() expected error")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("doRequest() error = %q, want to contain 'request failed'", err.Error())
	}
	if !errors.Is(err, networkErr) {
		t.Error("doRequest() error should wrap the network error")
	}
}

func TestDoRequest_ErrorTruncation(t *testing.T) {
	longError := strings.Repeat("x", 600)
	client := &Client{
		httpClient: &mockHTTPDoer{
			response: mockResponse(http.StatusBadRequest, longError),
		},
	}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
	if err == nil {
		t.Fatal("doRequest() expected error")
	}

	if strings.Count(err.Error(), "x") != 500 {
		t.Errorf("doRequest() error body should be truncated to 500 chars, got %d", strings.Count(err.Error(), "x"))
	}
}

func TestDoRequest_Headers(t *testing.T) {
	var capturedReq *http.Request
	client := &Client{
		httpClient: &capturingHTTPDoer{
			capturedReq: &capturedReq,
			response:    mockResponse(http.StatusOK, `{}`),
		},
	}

	headers := map[string]string{"x-goog-api-key": "AIza-test"}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, headers)
	if err != nil {
		t.Fatalf("doRequest() error = %v", err)
	}

	if capturedReq == nil {
		t.Fatal("request was not captured")
	}
	if ct := capturedReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want 'application/json'", ct)
	}
	if key := capturedReq.Header.Get("x-goog-api-key"); key != "AIza-test" {
		t.Errorf("x-goog-api-key = %q, want 'AIza-test'", key)
	}
	if capturedReq.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", capturedReq.Method)
	}
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()

	expected := []string{"google", "anthropic"}
	if len(providers) != len(expected) {
		t.Errorf("SupportedProviders() length = %d, want %d", len(providers), len(expected))
	}
	for _, exp := range expected {
		if !slices.Contains(providers, exp) {
			t.Errorf("SupportedProviders() missing %q", exp)
		}
	}
}

func TestComplete_UnsupportedProvider(t *testing.T) {
	client := &Client{provider: Provider("unsupported")}

	_, err := client.Complete(context.Background(), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("Complete() expected error for unsupported provider")
	}
	if !strings.Contains(err.Error(), "unsupported provider") {
		t.Errorf("Complete() error = %q, want to contain 'unsupported provider'", err.Error())
	}

	if _, err := client.CountTokens(context.Background(), "test"); err == nil {
		t.Fatal("CountTokens() expected error for unsupported provider")
	}
}
