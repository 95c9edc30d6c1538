package data

import (
	"context"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/registry/provider"
	regtypes "github.com/lk2023060901/model-search-assistant/internal/registry/types"
)

// RegistryFetcher 在进程内直接调用注册中心，省去一次 HTTP 往返
type RegistryFetcher struct {
	lister provider.ModelLister
}

func NewRegistryFetcher(lister provider.ModelLister) *RegistryFetcher {
	return &RegistryFetcher{lister: lister}
}

// FetchModels implements biz.Fetcher
func (f *RegistryFetcher) FetchModels(ctx context.Context, query string, filters types.SearchFilters) ([]types.ModelRecord, error) {
	body, err := f.lister.ListModels(ctx, &regtypes.ListRequest{
		Query:             query,
		Task:              filters.Task,
		SortBy:            string(filters.SortBy),
		IncludeRestricted: filters.IncludeRestricted,
	})
	if err != nil {
		return nil, err
	}
	return DecodeModels(body)
}
