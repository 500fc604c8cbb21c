package providers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	BedrockName             = "bedrock"
	bedrockDefaultMaxTokens = 2048
	anthropicVersion        = "bedrock-2023-05-31"
)

// BedrockConfig holds configuration for the Amazon Bedrock client.
type BedrockConfig struct {
	Region      string // Empty lets the AWS config chain resolve it
	Model       string // Bedrock model ID or inference profile ARN
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// BedrockClient implements Provider for Anthropic models on Amazon Bedrock.
// Credentials come from the default AWS config chain.
type BedrockClient struct {
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	svc         *bedrockruntime.Client
}

// NewBedrockClient creates a Bedrock provider client.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, &ProviderError{Provider: BedrockName, Message: "model is required"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	var awsCfg aws.Config
	var err error
	if strings.TrimSpace(cfg.Region) != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, &ProviderError{Provider: BedrockName, Message: "failed to load AWS config", Err: err}
	}
	if awsCfg.Region == "" {
		return nil, &ProviderError{Provider: BedrockName, Message: "AWS region not resolved; set region in config or AWS_REGION"}
	}

	return &BedrockClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		svc:         bedrockruntime.NewFromConfig(awsCfg),
	}, nil
}

// Name returns the provider identifier.
func (c *BedrockClient) Name() string {
	return BedrockName
}

// anthropicRequest is the Claude messages payload for InvokeModel.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature,omitempty"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends the prompt to Bedrock via InvokeModel.
func (c *BedrockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, &ProviderError{Provider: BedrockName, Message: "prompt is required"}
	}
	if req.EnableWebSearch {
		return nil, &ProviderError{Provider: BedrockName, Message: "web search is not supported by the bedrock provider"}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = bedrockDefaultMaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	payload := anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		System:           req.SystemPrompt,
		Messages: []anthropicMessage{{
			Role:    "user",
			Content: []anthropicContent{{Type: "text", Text: req.Prompt}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: BedrockName, Message: "failed to encode request", Err: err}
	}

	invokeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.svc.InvokeModel(invokeCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(normalizeBedrockModelID(model)),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, &ProviderError{Provider: BedrockName, Message: "invoke failed for model " + model, Err: err}
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, &ProviderError{Provider: BedrockName, Message: "failed to decode response", Err: err}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			text = strings.TrimSpace(block.Text)
			break
		}
	}
	if text == "" {
		return nil, &ProviderError{Provider: BedrockName, Message: "empty response from model " + model}
	}

	return &GenerateResult{
		Content:          text,
		Provider:         BedrockName,
		ModelUsed:        model,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		ExecutionTime:    time.Since(start),
	}, nil
}

// normalizeBedrockModelID appends the revision suffix some integrations
// require. ARNs and inference profiles are left untouched.
func normalizeBedrockModelID(modelID string) string {
	lower := strings.ToLower(modelID)
	if strings.HasPrefix(lower, "arn:") || strings.Contains(lower, "inference-profile/") {
		return modelID
	}
	if !strings.Contains(modelID, ":") {
		return modelID + ":0"
	}
	return modelID
}

var _ Provider = (*BedrockClient)(nil)
