package types

// SortKey selects the primary ranking criterion.
type SortKey string

const (
	SortByDownloads    SortKey = "downloads"
	SortByLikes        SortKey = "likes"
	SortByLastModified SortKey = "lastModified"
)

// Valid reports whether k is one of the three recognized keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortByDownloads, SortByLikes, SortByLastModified:
		return true
	}
	return false
}

const (
	// TaskAutoDetect lets the UI pick the task from the query text.
	TaskAutoDetect = "auto-detect"
	// DefaultTask is used when a search carries no task.
	DefaultTask = "text-generation"
)

// SearchFilters is the fully populated filter set. Field order is fixed, which keeps
// its JSON encoding canonical for cache keys.
type SearchFilters struct {
	Task              string  `json:"task"`
	IncludeSpaces     bool    `json:"includeSpaces"`
	IncludeDatasets   bool    `json:"includeDatasets"`
	IncludeRestricted bool    `json:"includeRestricted"`
	SortBy            SortKey `json:"sortBy"`
	Language          *string `json:"language,omitempty"`
}

// PartialFilters is what callers hand in: any subset of the filter fields.
type PartialFilters struct {
	Task              *string  `json:"task,omitempty"`
	IncludeSpaces     *bool    `json:"includeSpaces,omitempty"`
	IncludeDatasets   *bool    `json:"includeDatasets,omitempty"`
	IncludeRestricted *bool    `json:"includeRestricted,omitempty"`
	SortBy            *SortKey `json:"sortBy,omitempty"`
	Language          *string  `json:"language,omitempty"`
}
