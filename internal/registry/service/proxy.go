package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/model-search-assistant/internal/pkg/errors"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/registry/provider"
	"github.com/lk2023060901/model-search-assistant/internal/registry/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ProxyService 模型注册中心代理，客户端不接触 API Key
type ProxyService struct {
	lister provider.ModelLister
	logger *logger.Logger
}

// NewProxyService 创建代理服务
func NewProxyService(lister provider.ModelLister, lgr *logger.Logger) *ProxyService {
	if lgr == nil {
		lgr = logger.L()
	}
	return &ProxyService{
		lister: lister,
		logger: lgr.Named("proxy"),
	}
}

type errorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ListModels 处理 /api/huggingface-models
func (s *ProxyService) ListModels(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Message: types.MessageMethodNotAllowed})
		return
	}

	log := logger.FromContext(c.Request.Context())
	if !s.lister.HasAPIKey() {
		log.Error("registry API key is not configured")
		c.JSON(http.StatusInternalServerError, errorBody{Message: types.MessageKeyNotConfigured})
		return
	}

	req := &types.ListRequest{
		Query:             c.Query("query"),
		Task:              c.Query("task"),
		SortBy:            c.Query("sortBy"),
		IncludeRestricted: types.ParseIncludeRestricted(c.Query("includeRestricted")),
	}

	body, err := s.lister.ListModels(c.Request.Context(), req)
	if err != nil {
		code, status, details := upstreamFailure(err)
		log.Error("registry proxy call failed",
			zap.Int("code", code),
			zap.Int("status", status),
			zap.String("task", req.Task),
			zap.Error(err))
		c.JSON(status, errorBody{Message: types.MessageUpstreamFailed, Details: details})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// upstreamFailure 有上游响应时状态码跟随上游，否则按错误类型映射
// details 优先使用上游 JSON，其次原始文本，最后是错误信息
func upstreamFailure(err error) (int, int, interface{}) {
	var upstream *types.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode > 0 {
		if len(upstream.Body) > 0 && gjson.ValidBytes(upstream.Body) {
			return apperrors.ErrRegistryUpstream, upstream.StatusCode, json.RawMessage(upstream.Body)
		}
		return apperrors.ErrRegistryUpstream, upstream.StatusCode, string(upstream.Body)
	}

	code := classifyFailure(err)
	if code == apperrors.ErrRegistryUpstream {
		return code, http.StatusInternalServerError, err.Error()
	}
	return code, apperrors.GetHTTPStatus(code), err.Error()
}

func classifyFailure(err error) int {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrRegistryTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.ErrRegistryTimeout
	case errors.Is(err, types.ErrInvalidResponse):
		return apperrors.ErrRegistryBadResponse
	default:
		return apperrors.ErrRegistryUpstream
	}
}
