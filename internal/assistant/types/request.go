package types

import mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"

// DescribeRequest POST /api/v1/assistant/describe
type DescribeRequest struct {
	Model mstypes.ModelRecord `json:"model"`
	Query string              `json:"query"`
}

// DescribeBatchRequest POST /api/v1/assistant/describe/batch
type DescribeBatchRequest struct {
	Models []mstypes.ModelRecord `json:"models" binding:"required,min=1,max=20"`
	Query  string                `json:"query"`
}

// ChatRequest POST /api/v1/assistant/chat
type ChatRequest struct {
	Question string                `json:"question" binding:"required"`
	History  []ChatMessage         `json:"history"`
	Models   []mstypes.ModelRecord `json:"models"`
}

// ChatResponse 对话回复
type ChatResponse struct {
	Message ChatMessage `json:"message"`
}
