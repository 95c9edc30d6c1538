package types

// FetchErrorMessage is the only error text callers of Search ever see.
const FetchErrorMessage = "Could not fetch models. Please try again later."

// APIResponse is the search result envelope: models, or an empty list plus an error.
type APIResponse struct {
	Models []ModelRecord `json:"models"`
	Error  string        `json:"error,omitempty"`
}

// Failed reports whether the response carries an error.
func (r APIResponse) Failed() bool {
	return r.Error != ""
}

// CacheStats reports cache performance counters.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Expired int64 `json:"expired"`
	Evicted int64 `json:"evicted"`
}
