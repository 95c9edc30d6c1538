package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	apperrors "github.com/lk2023060901/model-search-assistant/internal/pkg/errors"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/response"
	"go.uber.org/zap"
)

// SearchUseCase is the part of biz.SearchUseCase the HTTP layer needs
type SearchUseCase interface {
	Search(ctx context.Context, query string, partial types.PartialFilters) types.APIResponse
	CacheStats() types.CacheStats
}

// SearchService 模型搜索 HTTP 服务
type SearchService struct {
	uc SearchUseCase
}

// NewSearchService 创建搜索服务
func NewSearchService(uc SearchUseCase) *SearchService {
	return &SearchService{uc: uc}
}

// Search 处理 GET /api/v1/search
// 成功返回 200，上游失败返回 502，两者都是 {models, error?} 结构
func (s *SearchService) Search(c *gin.Context) {
	partial, err := ParseFilters(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	result := s.uc.Search(c.Request.Context(), c.Query("query"), partial)
	if result.Failed() {
		c.JSON(apperrors.GetHTTPStatus(apperrors.ErrSearchFetchFailed), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats 处理 GET /api/v1/search/stats
func (s *SearchService) Stats(c *gin.Context) {
	response.Success(c, s.uc.CacheStats())
}

// Tasks 处理 GET /api/v1/search/tasks
func (s *SearchService) Tasks(c *gin.Context) {
	response.Success(c, gin.H{"tasks": types.TaskOptions})
}

// ParseFilters 从查询参数读取过滤条件，缺省的参数保持未设置
func ParseFilters(c *gin.Context) (types.PartialFilters, error) {
	var partial types.PartialFilters

	if v, ok := c.GetQuery("task"); ok {
		partial.Task = &v
	}
	if v, ok := c.GetQuery("sortBy"); ok {
		key := types.SortKey(v)
		if v != "" && !key.Valid() {
			logger.FromContext(c.Request.Context()).Warn("unknown sortBy, ranking by lastModified",
				zap.String("sort_by", v))
		}
		partial.SortBy = &key
	}
	if v, ok := c.GetQuery("language"); ok && v != "" {
		partial.Language = &v
	}

	boolParams := []struct {
		name   string
		target **bool
	}{
		{"includeSpaces", &partial.IncludeSpaces},
		{"includeDatasets", &partial.IncludeDatasets},
		{"includeRestricted", &partial.IncludeRestricted},
	}
	for _, p := range boolParams {
		raw, ok := c.GetQuery(p.name)
		if !ok || raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return partial, apperrors.New(apperrors.ErrSearchInvalidFilter, p.name+" must be a boolean")
		}
		*p.target = &b
	}

	return partial, nil
}
