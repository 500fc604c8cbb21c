package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o"
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // Default model ("gpt-4o" when empty)
	Temperature float64 // Default sampling temperature (0 = API default)
	MaxTokens   int     // Default response cap (0 = API default)
	MaxRetries  int     // Retry attempts for SDK transport
	Timeout     time.Duration
	BaseURL     string       // Optional (tests)
	HTTPClient  *http.Client // Optional (tests)
}

// OpenAIClient implements Provider using the official OpenAI SDK.
// It uses the Responses API, which carries the built-in web_search tool.
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int
	client      openai.Client
}

// NewOpenAIClient creates a new OpenAI provider client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured default model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends the prompt through the Responses API.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, &ProviderError{Provider: OpenAIName, Message: "prompt is required"}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	if req.SystemPrompt != "" {
		params.Instructions = openai.String(req.SystemPrompt)
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(maxTokens))
	}
	if req.EnableWebSearch {
		params.Tools = []responses.ToolUnionParam{{
			OfWebSearch: &responses.WebSearchToolParam{
				Type: responses.WebSearchToolTypeWebSearch,
			},
		}}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	result := &GenerateResult{
		Content:       strings.TrimSpace(resp.OutputText()),
		Provider:      OpenAIName,
		ModelUsed:     string(resp.Model),
		ExecutionTime: time.Since(start),
	}
	result.PromptTokens = int(resp.Usage.InputTokens)
	result.CompletionTokens = int(resp.Usage.OutputTokens)
	result.TotalTokens = int(resp.Usage.TotalTokens)
	for _, item := range resp.Output {
		if item.Type == "web_search_call" {
			result.WebSearchCalls++
		}
	}

	if result.Content == "" {
		return nil, &ProviderError{Provider: OpenAIName, Message: "empty response from model " + model}
	}
	return result, nil
}

// mapOpenAIError converts SDK errors into the provider error taxonomy.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Duration(0)
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Provider:   OpenAIName,
				Message:    apiErr.Message,
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		return &ProviderError{
			Provider:   OpenAIName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &ProviderError{
		Provider: OpenAIName,
		Message:  fmt.Sprintf("request failed: %v", err),
		Err:      err,
	}
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

var _ Provider = (*OpenAIClient)(nil)
