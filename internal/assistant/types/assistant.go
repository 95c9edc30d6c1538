package types

import (
	"time"

	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
)

// Task 描述模板有专门文案的任务，其他任务字符串保持开放
type Task string

const (
	TaskTextGeneration     Task = "text-generation"
	TaskTextToImage        Task = "text-to-image"
	TaskTextClassification Task = "text-classification"
	TaskQuestionAnswering  Task = "question-answering"
	TaskSummarization      Task = "summarization"
	TaskTranslation        Task = "translation"
)

// KnownTasks 有专门文案的任务
var KnownTasks = []Task{
	TaskTextGeneration,
	TaskTextToImage,
	TaskTextClassification,
	TaskQuestionAnswering,
	TaskSummarization,
	TaskTranslation,
}

// ParseTask 返回已知任务，未知任务返回 false
func ParseTask(s string) (Task, bool) {
	for _, t := range KnownTasks {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DescriptionSource 描述的来源
type DescriptionSource string

const (
	SourceLLM      DescriptionSource = "llm"
	SourceFallback DescriptionSource = "fallback"
)

// Description 模型描述
type Description struct {
	ModelID  string            `json:"modelId"`
	Text     string            `json:"text"`
	Source   DescriptionSource `json:"source"`
	Insights Insights          `json:"insights"`
}

// Insights 基于下载量、点赞数和任务的展示信息
type Insights struct {
	Popularity      string   `json:"popularity"`
	CommunityRating string   `json:"communityRating"`
	UseCases        []string `json:"useCases"`
}

// Status AI 助手配置状态
type Status struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
}

// MessageType 对话消息类型
type MessageType string

const (
	MessageUser      MessageType = "user"
	MessageAssistant MessageType = "assistant"
	MessageResults   MessageType = "results"
)

// Valid reports whether t is a known message type
func (t MessageType) Valid() bool {
	switch t {
	case MessageUser, MessageAssistant, MessageResults:
		return true
	}
	return false
}

// ChatMessage 一条对话记录
type ChatMessage struct {
	ID            string                 `json:"id"`
	Type          MessageType            `json:"type"`
	Content       string                 `json:"content"`
	Timestamp     time.Time              `json:"timestamp"`
	Results       []mstypes.ModelRecord  `json:"results,omitempty"`
	Filters       *mstypes.SearchFilters `json:"filters,omitempty"`
	OriginalQuery string                 `json:"originalQuery,omitempty"`
}

// Fixed replies of the conversation path
const (
	ReplyNotConfigured = "I can't answer follow-up questions without an API key configured for the AI assistant."
	ReplyUnavailable   = "I'm having trouble connecting to my AI brain right now. Please try again in a moment."
	ReplyEmpty         = "I'm sorry, I couldn't generate a response."
	ReplyOffTopic      = "I can only answer questions about the provided model search results."
)

// PlaceholderKeys 不算作已配置的 API Key
var PlaceholderKeys = []string{"YOUR_API_KEY", "API_KEY_ADDED"}
