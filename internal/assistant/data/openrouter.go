package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/assistant/biz"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/httpclient"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultTitle             = "HuggingFace Model Search Assistant"
)

// OpenRouterConfig OpenRouter 客户端配置
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string // HTTP-Referer
	Title   string // X-Title
	Timeout time.Duration
}

// OpenRouterClient 基于 go-openai 的 OpenRouter 补全客户端
type OpenRouterClient struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenRouterClient 创建 OpenRouter 客户端
func NewOpenRouterClient(cfg *OpenRouterConfig, lgr *logger.Logger) (*OpenRouterClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterBaseURL
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if lgr == nil {
		lgr = logger.L()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = httpclient.WithHeaders(cfg.Timeout, map[string]string{
		"HTTP-Referer": cfg.Referer,
		"X-Title":      cfg.Title,
	})

	lgr.Info("openrouter client created",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model))

	return &OpenRouterClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: lgr,
	}, nil
}

// Complete implements biz.Completer
func (c *OpenRouterClient) Complete(ctx context.Context, req biz.CompletionRequest) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion failed: %w", err)
	}

	c.logger.Debug("openrouter completion",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("took", time.Since(start)))

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
