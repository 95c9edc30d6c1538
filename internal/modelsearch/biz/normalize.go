package biz

import "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"

// Normalize 补全过滤条件的默认值
// task 和 sortBy 为空字符串时视为未设置，三个布尔值缺省为 false，language 保持原样
func Normalize(partial types.PartialFilters) types.SearchFilters {
	filters := types.SearchFilters{
		Task:     types.DefaultTask,
		SortBy:   types.SortByDownloads,
		Language: partial.Language,
	}

	if partial.Task != nil && *partial.Task != "" {
		filters.Task = *partial.Task
	}
	if partial.SortBy != nil && *partial.SortBy != "" {
		filters.SortBy = *partial.SortBy
	}
	if partial.IncludeSpaces != nil {
		filters.IncludeSpaces = *partial.IncludeSpaces
	}
	if partial.IncludeDatasets != nil {
		filters.IncludeDatasets = *partial.IncludeDatasets
	}
	if partial.IncludeRestricted != nil {
		filters.IncludeRestricted = *partial.IncludeRestricted
	}

	return filters
}
