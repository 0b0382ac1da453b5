package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// BedrockConfig selects the Bedrock region, credentials profile and model.
// Empty Region/Profile fall back to the default AWS resolution chain
// (AWS_REGION, AWS_ACCESS_KEY_ID, shared config files).
type BedrockConfig struct {
	Region   string
	Profile  string
	ModelID  string
	Endpoint string
	Timeout  time.Duration
}

// BedrockClient invokes Meta Llama models through the Bedrock runtime
// InvokeModel API.
type BedrockClient struct {
	rt      *bedrockruntime.Client
	modelID string
}

// NewBedrockClient resolves AWS configuration and returns a client for cfg.ModelID.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}
	return NewBedrockClientWithAWS(awsCfg, cfg)
}

// NewBedrockClientWithAWS builds a client from an already resolved aws.Config.
// The SDK retryer is limited to a single attempt; retries belong to the
// model client middleware.
func NewBedrockClientWithAWS(awsCfg aws.Config, cfg BedrockConfig) (*BedrockClient, error) {
	if strings.TrimSpace(cfg.ModelID) == "" {
		return nil, fmt.Errorf("bedrock: model id is required")
	}
	if awsCfg.Region == "" {
		return nil, fmt.Errorf("bedrock: region is not configured")
	}
	if awsCfg.Credentials == nil {
		return nil, fmt.Errorf("bedrock: no credentials provider")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	rt := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.RetryMaxAttempts = 1
		o.HTTPClient = awshttp.NewBuildableClient().WithTimeout(timeout)
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &BedrockClient{rt: rt, modelID: cfg.ModelID}, nil
}

func (b *BedrockClient) Name() string { return "Bedrock:" + b.modelID }
func (b *BedrockClient) Close() error { return nil }

type llamaRequest struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type llamaResponse struct {
	Generation           *string `json:"generation"`
	PromptTokenCount     int     `json:"prompt_token_count"`
	GenerationTokenCount int     `json:"generation_token_count"`
	StopReason           string  `json:"stop_reason"`
}

// Generate sends one InvokeModel request and returns the "generation" field.
func (b *BedrockClient) Generate(ctx context.Context, inv Invocation) (string, error) {
	s := inv.Sampling.WithDefaults()
	body, err := json.Marshal(llamaRequest{
		Prompt:      inv.Prompt,
		MaxGenLen:   s.MaxTokens,
		Temperature: s.Temperature,
		TopP:        s.TopP,
	})
	if err != nil {
		return "", NewError(InvalidRequest, err)
	}

	out, err := b.rt.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", classifyBedrock(err)
	}

	var resp llamaResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", NewError(Unknown, fmt.Errorf("bedrock: decode response: %w", err))
	}
	if resp.Generation == nil {
		return "", NewError(Unknown, fmt.Errorf("bedrock: response has no generation field"))
	}
	return *resp.Generation, nil
}

func classifyBedrock(err error) *ModelError {
	var re *smithyhttp.ResponseError
	if !errors.As(err, &re) {
		return Classify(err)
	}
	code := re.HTTPStatusCode()
	msg := err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		msg = apiErr.ErrorMessage()
	}
	return NewError(KindFromStatus(code), &StatusError{Code: code, Body: msg})
}
