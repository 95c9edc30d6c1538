package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/registry/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, baseURL, key string) *HuggingFaceProvider {
	t.Helper()
	p, err := NewHuggingFaceProvider(types.Config{BaseURL: baseURL, APIKey: key}, logger.NewNop())
	require.NoError(t, err)
	return p
}

func TestBuildParams(t *testing.T) {
	p := newTestProvider(t, "https://huggingface.co", "k")

	tests := []struct {
		name       string
		req        types.ListRequest
		wantSort   string
		wantFilter []string
		wantSearch string
	}{
		{
			name:       "defaults hide gated models",
			req:        types.ListRequest{Task: "text-generation", SortBy: "downloads"},
			wantSort:   "downloads",
			wantFilter: []string{"text-generation", "not:gated"},
		},
		{
			name:       "restricted allowed",
			req:        types.ListRequest{Task: "translation", SortBy: "likes", IncludeRestricted: true, Query: "opus"},
			wantSort:   "likes",
			wantFilter: []string{"translation"},
			wantSearch: "opus",
		},
		{
			name:       "blank query omitted and unknown sort",
			req:        types.ListRequest{Query: "   ", SortBy: "trending"},
			wantSort:   "lastModified",
			wantFilter: []string{"not:gated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := p.BuildParams(&tt.req)
			assert.Equal(t, tt.wantSort, params.Get("sort"))
			assert.Equal(t, "-1", params.Get("direction"))
			assert.Equal(t, "5", params.Get("limit"))
			assert.Equal(t, "true", params.Get("full"))
			assert.Equal(t, tt.wantFilter, params["filter"])
			assert.Equal(t, tt.wantSearch, params.Get("search"))
			_, hasSearch := params["search"]
			assert.Equal(t, tt.wantSearch != "", hasSearch)
		})
	}
}

func TestListModels_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/models", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "llama", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"meta-llama/Llama-3-8B","downloads":10}]`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, "hf_test")
	body, err := p.ListModels(context.Background(), &types.ListRequest{Query: "llama", Task: "text-generation"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"meta-llama/Llama-3-8B","downloads":10}]`, string(body))
}

func TestListModels_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials in Authorization header"}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, "bad")
	_, err := p.ListModels(context.Background(), &types.ListRequest{})

	var upstream *types.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid credentials in Authorization header"}`, string(upstream.Body))
}

func TestListModels_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, "k")
	_, err := p.ListModels(context.Background(), &types.ListRequest{})
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestListModels_MissingKey(t *testing.T) {
	p := newTestProvider(t, "https://huggingface.co", "")
	assert.False(t, p.HasAPIKey())

	_, err := p.ListModels(context.Background(), &types.ListRequest{})
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestListModels_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := newTestProvider(t, url, "k")
	_, err := p.ListModels(context.Background(), &types.ListRequest{})

	var upstream *types.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Zero(t, upstream.StatusCode)
	assert.Error(t, upstream.Err)
}
