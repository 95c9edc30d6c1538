package service

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lk2023060901/model-search-assistant/internal/assistant/types"
	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	apperrors "github.com/lk2023060901/model-search-assistant/internal/pkg/errors"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/response"
)

// AssistantUseCase is the part of biz.AssistantUseCase the HTTP layer needs
type AssistantUseCase interface {
	Status() types.Status
	DescribeModel(ctx context.Context, model *mstypes.ModelRecord, query string) types.Description
	DescribeModels(ctx context.Context, models []mstypes.ModelRecord, query string) []types.Description
	Converse(ctx context.Context, question string, history []types.ChatMessage, models []mstypes.ModelRecord) string
}

// AssistantService AI 助手 HTTP 服务
type AssistantService struct {
	uc  AssistantUseCase
	now func() time.Time
}

// NewAssistantService 创建助手服务
func NewAssistantService(uc AssistantUseCase) *AssistantService {
	return &AssistantService{uc: uc, now: time.Now}
}

// Status GET /api/v1/assistant/status
func (s *AssistantService) Status(c *gin.Context) {
	response.Success(c, s.uc.Status())
}

// Describe POST /api/v1/assistant/describe
func (s *AssistantService) Describe(c *gin.Context) {
	var req types.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, err.Error())
		return
	}
	if strings.TrimSpace(req.Model.ID) == "" {
		response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, "model.id is required")
		return
	}

	response.Success(c, s.uc.DescribeModel(c.Request.Context(), &req.Model, req.Query))
}

// DescribeBatch POST /api/v1/assistant/describe/batch
func (s *AssistantService) DescribeBatch(c *gin.Context) {
	var req types.DescribeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, err.Error())
		return
	}
	for _, m := range req.Models {
		if strings.TrimSpace(m.ID) == "" {
			response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, "every model needs an id")
			return
		}
	}

	response.Success(c, gin.H{
		"descriptions": s.uc.DescribeModels(c.Request.Context(), req.Models, req.Query),
	})
}

// Chat POST /api/v1/assistant/chat
func (s *AssistantService) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, "question is required")
		return
	}
	for _, h := range req.History {
		if !h.Type.Valid() {
			response.ErrorWithCode(c, apperrors.ErrAssistantInvalidInput, "unknown history message type: "+string(h.Type))
			return
		}
	}

	reply := s.uc.Converse(c.Request.Context(), req.Question, req.History, req.Models)
	response.Success(c, types.ChatResponse{
		Message: types.ChatMessage{
			ID:        uuid.New().String(),
			Type:      types.MessageAssistant,
			Content:   reply,
			Timestamp: s.now(),
		},
	})
}
