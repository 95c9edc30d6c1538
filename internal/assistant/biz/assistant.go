package biz

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/assistant/types"
	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/workerpool"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("empty completion")

// CompletionRequest 一次 system/user 对话补全
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completer LLM 补全
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TokenCounter 计算文本 token 数
type TokenCounter interface {
	Count(text string) int
}

// Config 助手配置
type Config struct {
	APIKey                  string
	Model                   string
	DescriptionTimeout      time.Duration
	DescriptionMaxTokens    int
	DescriptionTemperature  float32
	ConversationTimeout     time.Duration
	ConversationMaxTokens   int
	ConversationTemperature float32
	HistoryTokenBudget      int // <= 0 不裁剪
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Model:                   "anthropic/claude-3.5-sonnet",
		DescriptionTimeout:      10 * time.Second,
		DescriptionMaxTokens:    300,
		DescriptionTemperature:  0.3,
		ConversationTimeout:     15 * time.Second,
		ConversationMaxTokens:   400,
		ConversationTemperature: 0.5,
		HistoryTokenBudget:      2000,
	}
}

// IsKeyConfigured 非空且不是占位符
func IsKeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !slices.Contains(types.PlaceholderKeys, key)
}

// AssistantUseCase AI 助手：模型描述和追问对话，失败时始终降级为固定文本
type AssistantUseCase struct {
	config    Config
	completer Completer
	counter   TokenCounter
	pool      *workerpool.Pool
	logger    *logger.Logger
}

// NewAssistantUseCase 创建助手用例，pool 为 nil 时批量描述串行执行
func NewAssistantUseCase(cfg Config, completer Completer, counter TokenCounter, pool *workerpool.Pool, lgr *logger.Logger) *AssistantUseCase {
	if lgr == nil {
		lgr = logger.L()
	}
	return &AssistantUseCase{
		config:    cfg,
		completer: completer,
		counter:   counter,
		pool:      pool,
		logger:    lgr.Named("assistant"),
	}
}

// Status 返回配置状态
func (uc *AssistantUseCase) Status() types.Status {
	configured := uc.configured()
	status := types.Status{Configured: configured}
	if configured {
		status.Model = uc.config.Model
	}
	return status
}

func (uc *AssistantUseCase) configured() bool {
	return uc.completer != nil && IsKeyConfigured(uc.config.APIKey)
}

// DescribeModel 生成模型描述；未配置、调用失败或返回为空时使用固定描述
func (uc *AssistantUseCase) DescribeModel(ctx context.Context, model *mstypes.ModelRecord, query string) types.Description {
	desc := types.Description{
		ModelID:  model.ID,
		Source:   types.SourceFallback,
		Insights: BuildInsights(model),
	}

	if !uc.configured() {
		desc.Text = FallbackDescription(model)
		return desc
	}

	system, user := DescriptionPrompts(model, query)
	text, err := uc.complete(ctx, uc.config.DescriptionTimeout, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   uc.config.DescriptionMaxTokens,
		Temperature: uc.config.DescriptionTemperature,
	})
	if err != nil {
		uc.logger.WithContext(ctx).Warn("model description fell back",
			zap.String("model_id", model.ID),
			zap.Error(err))
		desc.Text = FallbackDescription(model)
		return desc
	}

	desc.Text = text
	desc.Source = types.SourceLLM
	return desc
}

// DescribeModels 并发生成多条描述，结果顺序与输入一致
func (uc *AssistantUseCase) DescribeModels(ctx context.Context, models []mstypes.ModelRecord, query string) []types.Description {
	out := make([]types.Description, len(models))
	if uc.pool == nil || !uc.configured() {
		for i := range models {
			out[i] = uc.DescribeModel(ctx, &models[i], query)
		}
		return out
	}

	results := make([]<-chan workerpool.TaskResult, len(models))
	for i := range models {
		model := &models[i]
		results[i] = uc.pool.SubmitWithResult(func() (interface{}, error) {
			return uc.DescribeModel(ctx, model, query), nil
		})
	}

	for i, ch := range results {
		res := <-ch
		if desc, ok := res.Data.(types.Description); ok && res.Error == nil {
			out[i] = desc
			continue
		}
		uc.logger.WithContext(ctx).Warn("batch description task failed",
			zap.String("model_id", models[i].ID),
			zap.Error(res.Error))
		out[i] = types.Description{
			ModelID:  models[i].ID,
			Text:     FallbackDescription(&models[i]),
			Source:   types.SourceFallback,
			Insights: BuildInsights(&models[i]),
		}
	}
	return out
}

// Converse 回答关于当前搜索结果的追问
func (uc *AssistantUseCase) Converse(ctx context.Context, question string, history []types.ChatMessage, models []mstypes.ModelRecord) string {
	if !uc.configured() {
		return types.ReplyNotConfigured
	}

	trimmed := uc.TrimHistory(history)
	system, user := ConversationPrompts(question, trimmed, models)
	text, err := uc.complete(ctx, uc.config.ConversationTimeout, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   uc.config.ConversationMaxTokens,
		Temperature: uc.config.ConversationTemperature,
	})
	switch {
	case errors.Is(err, ErrEmptyCompletion):
		return types.ReplyEmpty
	case err != nil:
		uc.logger.WithContext(ctx).Error("conversation call failed",
			zap.Int("history", len(trimmed)),
			zap.Int("models", len(models)),
			zap.Error(err))
		return types.ReplyUnavailable
	}
	return text
}

// TrimHistory 从最早的消息开始丢弃，直到历史记录不超过 token 预算
func (uc *AssistantUseCase) TrimHistory(history []types.ChatMessage) []types.ChatMessage {
	budget := uc.config.HistoryTokenBudget
	if budget <= 0 || uc.counter == nil {
		return history
	}

	total := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		n := uc.counter.Count(historyLine(history[i])) + 1
		if total+n > budget {
			break
		}
		total += n
		start = i
	}

	if start > 0 {
		uc.logger.Debug("conversation history trimmed",
			zap.Int("dropped", start),
			zap.Int("kept", len(history)-start),
			zap.Int("tokens", total))
	}
	return history[start:]
}

func (uc *AssistantUseCase) complete(ctx context.Context, timeout time.Duration, req CompletionRequest) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := uc.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
