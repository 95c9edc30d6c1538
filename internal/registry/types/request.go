package types

import "strings"

// ListRequest carries the proxy query parameters
type ListRequest struct {
	Query             string
	Task              string
	SortBy            string
	IncludeRestricted bool
}

// UpstreamSort maps sortBy onto the registry sort field; anything unknown sorts by lastModified
func (r *ListRequest) UpstreamSort() string {
	switch r.SortBy {
	case "downloads", "likes":
		return r.SortBy
	}
	return "lastModified"
}

// ParseIncludeRestricted treats any non-empty value other than "false" as true,
// the way the proxy has always read its query string.
func ParseIncludeRestricted(value string) bool {
	return value != "" && value != "false"
}

// HasQuery reports whether the free-text query should be forwarded
func (r *ListRequest) HasQuery() bool {
	return strings.TrimSpace(r.Query) != ""
}
