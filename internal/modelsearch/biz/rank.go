package biz

import (
	"sort"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Rank 返回排序后的副本，输入切片不变
// 按 sortBy 降序，相等时或 sortBy 未知时按 lastModified 降序；稳定排序
func Rank(records []types.ModelRecord, sortBy types.SortKey) []types.ModelRecord {
	ranked := cloneRecords(records)

	modified := make([]int64, len(ranked))
	for i := range ranked {
		modified[i] = ParseTimestamp(ranked[i].LastModified)
	}
	idx := make([]int, len(ranked))
	for i := range idx {
		idx[i] = i
	}

	primary := primaryKey(sortBy, modified)
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if primary != nil {
			pa, pb := primary(ranked[ia], ia), primary(ranked[ib], ib)
			if pa != pb {
				return pa > pb
			}
		}
		return modified[ia] > modified[ib]
	})

	out := make([]types.ModelRecord, len(ranked))
	for i, j := range idx {
		out[i] = ranked[j]
	}
	return out
}

func primaryKey(sortBy types.SortKey, modified []int64) func(types.ModelRecord, int) float64 {
	switch sortBy {
	case types.SortByDownloads:
		return func(r types.ModelRecord, _ int) float64 { return r.Downloads }
	case types.SortByLikes:
		return func(r types.ModelRecord, _ int) float64 { return r.Likes }
	case types.SortByLastModified:
		return func(_ types.ModelRecord, i int) float64 { return float64(modified[i]) }
	}
	return nil
}

// ParseTimestamp 解析 ISO 时间为毫秒，缺失或无法解析时为 0
func ParseTimestamp(value string) int64 {
	if value == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
