package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUseCase struct {
	result      types.APIResponse
	lastQuery   string
	lastPartial types.PartialFilters
}

func (f *fakeUseCase) Search(_ context.Context, query string, partial types.PartialFilters) types.APIResponse {
	f.lastQuery, f.lastPartial = query, partial
	return f.result
}

func (f *fakeUseCase) CacheStats() types.CacheStats {
	return types.CacheStats{Entries: 2, Hits: 5, Misses: 3}
}

func setupRouter(uc *fakeUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := NewSearchService(uc)
	r.GET("/api/v1/search", svc.Search)
	r.GET("/api/v1/search/stats", svc.Stats)
	r.GET("/api/v1/search/tasks", svc.Tasks)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearch_Success(t *testing.T) {
	uc := &fakeUseCase{result: types.APIResponse{Models: []types.ModelRecord{{ID: "gpt2", Downloads: 7}}}}
	r := setupRouter(uc)

	w := get(r, "/api/v1/search?query=gpt&task=text-generation&sortBy=likes&includeRestricted=true&language=en")

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gpt2", resp.Models[0].ID)
	assert.Empty(t, resp.Error)

	assert.Equal(t, "gpt", uc.lastQuery)
	require.NotNil(t, uc.lastPartial.Task)
	assert.Equal(t, "text-generation", *uc.lastPartial.Task)
	require.NotNil(t, uc.lastPartial.SortBy)
	assert.Equal(t, types.SortByLikes, *uc.lastPartial.SortBy)
	require.NotNil(t, uc.lastPartial.IncludeRestricted)
	assert.True(t, *uc.lastPartial.IncludeRestricted)
	assert.Nil(t, uc.lastPartial.IncludeSpaces)
	require.NotNil(t, uc.lastPartial.Language)
	assert.Equal(t, "en", *uc.lastPartial.Language)
}

func TestSearch_Failure(t *testing.T) {
	uc := &fakeUseCase{result: types.APIResponse{Models: []types.ModelRecord{}, Error: types.FetchErrorMessage}}
	r := setupRouter(uc)

	w := get(r, "/api/v1/search?query=x")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"models":[],"error":"Could not fetch models. Please try again later."}`, w.Body.String())
}

func TestSearch_InvalidBoolean(t *testing.T) {
	uc := &fakeUseCase{}
	r := setupRouter(uc)

	w := get(r, "/api/v1/search?includeSpaces=maybe")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "includeSpaces must be a boolean")
	assert.Empty(t, uc.lastQuery)
}

func TestSearch_NoParams(t *testing.T) {
	uc := &fakeUseCase{result: types.APIResponse{Models: []types.ModelRecord{}}}
	r := setupRouter(uc)

	w := get(r, "/api/v1/search")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":[]}`, w.Body.String())
	assert.Equal(t, types.PartialFilters{}, uc.lastPartial)
}

func TestStats(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w := get(r, "/api/v1/search/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"entries":2,"hits":5,"misses":3,"expired":0,"evicted":0}}`, w.Body.String())
}

func TestTasks(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w := get(r, "/api/v1/search/tasks")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Tasks []types.TaskOption `json:"tasks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Tasks)
	assert.Equal(t, types.TaskAutoDetect, body.Data.Tasks[0].Value)
}

func TestParseFilters_UnknownSortBy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.ToContext(context.Background(), &logger.Logger{Logger: zap.New(core)})

	parse := func(target string) types.PartialFilters {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
		partial, err := ParseFilters(c)
		require.NoError(t, err)
		return partial
	}

	partial := parse("/api/v1/search?sortBy=trending")
	require.NotNil(t, partial.SortBy)
	assert.Equal(t, types.SortKey("trending"), *partial.SortBy, "unknown keys still reach the ranker")
	require.Equal(t, 1, logs.FilterMessage("unknown sortBy, ranking by lastModified").Len())
	assert.Equal(t, "trending", logs.All()[0].ContextMap()["sort_by"])

	parse("/api/v1/search?sortBy=likes")
	parse("/api/v1/search?sortBy=")
	assert.Equal(t, 1, logs.Len())
}
