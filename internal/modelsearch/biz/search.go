package biz

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout 单次上游请求超时
const DefaultFetchTimeout = 15 * time.Second

var ErrNilFetcher = errors.New("model fetcher is required")

// Fetcher 从注册中心拉取模型列表
// query 为原始查询，trim 后为空时实现方不应发送 query 参数
type Fetcher interface {
	FetchModels(ctx context.Context, query string, filters types.SearchFilters) ([]types.ModelRecord, error)
}

// SearchConfig 搜索用例配置
type SearchConfig struct {
	FetchTimeout time.Duration
	Coalesce     bool // 相同缓存键的并发未命中共享一次上游请求
}

// SearchUseCase 搜索编排：规范化 -> 缓存 -> 拉取 -> 过滤 -> 排序 -> 写缓存
type SearchUseCase struct {
	fetcher Fetcher
	cache   Store
	logger  *logger.Logger
	timeout time.Duration
	group   *singleflight.Group
}

// NewSearchUseCase 创建搜索用例
func NewSearchUseCase(fetcher Fetcher, cache Store, cfg SearchConfig, lgr *logger.Logger) (*SearchUseCase, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if cache == nil {
		cache = NewMemoryCache(CacheConfig{})
	}
	if lgr == nil {
		lgr = logger.L()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	uc := &SearchUseCase{
		fetcher: fetcher,
		cache:   cache,
		logger:  lgr.Named("modelsearch"),
		timeout: cfg.FetchTimeout,
	}
	if cfg.Coalesce {
		uc.group = &singleflight.Group{}
	}
	return uc, nil
}

// Search 执行一次搜索，任何失败都折叠为统一的错误响应
func (uc *SearchUseCase) Search(ctx context.Context, query string, partial types.PartialFilters) types.APIResponse {
	filters := Normalize(partial)
	key := CacheKey(query, filters)

	if cached, ok := uc.cache.Get(key); ok {
		uc.logger.Debug("search cache hit",
			zap.String("cache_key", key),
			zap.Int("count", len(cached)))
		return types.APIResponse{Models: cached}
	}

	var (
		models []types.ModelRecord
		err    error
	)
	if uc.group != nil {
		models, err = uc.coalescedFetch(ctx, key, query, filters)
	} else {
		models, err = uc.fetchAndStore(ctx, key, query, filters)
	}

	if err != nil {
		uc.logger.WithContext(ctx).Error("model search failed",
			zap.String("query", query),
			zap.String("task", filters.Task),
			zap.String("sort_by", string(filters.SortBy)),
			zap.Error(err))
		return types.APIResponse{Models: []types.ModelRecord{}, Error: types.FetchErrorMessage}
	}

	return types.APIResponse{Models: models}
}

// coalescedFetch 共享的上游请求不受任何单个调用方取消的影响，只受 FetchTimeout 约束
// 调用方自己的 ctx 结束时只有它提前返回
func (uc *SearchUseCase) coalescedFetch(ctx context.Context, key, query string, filters types.SearchFilters) ([]types.ModelRecord, error) {
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		return uc.fetchAndStore(context.WithoutCancel(ctx), key, query, filters)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneRecords(res.Val.([]types.ModelRecord)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (uc *SearchUseCase) fetchAndStore(ctx context.Context, key, query string, filters types.SearchFilters) ([]types.ModelRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	raw, err := uc.fetcher.FetchModels(fetchCtx, query, filters)
	if err != nil {
		return nil, err
	}

	models := Rank(Sanitize(raw, filters.IncludeRestricted), filters.SortBy)
	uc.cache.Put(key, models)

	uc.logger.Debug("search fetched",
		zap.String("cache_key", key),
		zap.Int("fetched", len(raw)),
		zap.Int("kept", len(models)))
	return models, nil
}

// CacheStats 返回缓存统计
func (uc *SearchUseCase) CacheStats() types.CacheStats {
	return uc.cache.Stats()
}
