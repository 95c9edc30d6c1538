package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/model-search-assistant/internal/assistant/types"
	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	lastQuestion string
	lastHistory  []types.ChatMessage
	lastModels   []mstypes.ModelRecord
}

func (f *fakeUseCase) Status() types.Status { return types.Status{Configured: true, Model: "m"} }

func (f *fakeUseCase) DescribeModel(_ context.Context, model *mstypes.ModelRecord, query string) types.Description {
	return types.Description{ModelID: model.ID, Text: "about " + model.ID + " for " + query, Source: types.SourceLLM}
}

func (f *fakeUseCase) DescribeModels(ctx context.Context, models []mstypes.ModelRecord, query string) []types.Description {
	out := make([]types.Description, len(models))
	for i := range models {
		out[i] = f.DescribeModel(ctx, &models[i], query)
	}
	return out
}

func (f *fakeUseCase) Converse(_ context.Context, question string, history []types.ChatMessage, models []mstypes.ModelRecord) string {
	f.lastQuestion, f.lastHistory, f.lastModels = question, history, models
	return "answer"
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(uc *fakeUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := NewAssistantService(uc)
	g := r.Group("/api/v1/assistant")
	g.GET("/status", svc.Status)
	g.POST("/describe", svc.Describe)
	g.POST("/describe/batch", svc.DescribeBatch)
	g.POST("/chat", svc.Chat)
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestStatus(t *testing.T) {
	r := setupRouter(&fakeUseCase{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assistant/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"configured":true,"model":"m"}}`, w.Body.String())
}

func TestDescribe(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w, env := post(t, r, "/api/v1/assistant/describe", map[string]interface{}{
		"model": map[string]interface{}{"id": "gpt2", "gated": "auto"},
		"query": "tiny",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var desc types.Description
	require.NoError(t, json.Unmarshal(env.Data, &desc))
	assert.Equal(t, "about gpt2 for tiny", desc.Text)
}

func TestDescribe_MissingID(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w, env := post(t, r, "/api/v1/assistant/describe", map[string]interface{}{"model": map[string]interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "model.id is required")
}

func TestDescribeBatch(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w, env := post(t, r, "/api/v1/assistant/describe/batch", map[string]interface{}{
		"models": []map[string]interface{}{{"id": "a"}, {"id": "b"}},
		"query":  "q",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Descriptions []types.Description `json:"descriptions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Descriptions, 2)
	assert.Equal(t, "b", data.Descriptions[1].ModelID)

	w, _ = post(t, r, "/api/v1/assistant/describe/batch", map[string]interface{}{"models": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat(t *testing.T) {
	uc := &fakeUseCase{}
	r := setupRouter(uc)

	w, env := post(t, r, "/api/v1/assistant/chat", map[string]interface{}{
		"question": "which is best?",
		"history": []map[string]interface{}{
			{"id": "1", "type": "user", "content": "find llama", "timestamp": "2024-05-01T12:00:00Z"},
			{"id": "2", "type": "results", "content": "", "timestamp": "2024-05-01T12:00:01Z", "results": []map[string]interface{}{{"id": "meta-llama/Llama-3-8B"}}},
		},
		"models": []map[string]interface{}{{"id": "meta-llama/Llama-3-8B"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "answer", resp.Message.Content)
	assert.Equal(t, types.MessageAssistant, resp.Message.Type)
	assert.NotEmpty(t, resp.Message.ID)

	assert.Equal(t, "which is best?", uc.lastQuestion)
	require.Len(t, uc.lastHistory, 2)
	assert.Equal(t, types.MessageResults, uc.lastHistory[1].Type)
	assert.Len(t, uc.lastModels, 1)
}

func TestChat_InvalidInput(t *testing.T) {
	r := setupRouter(&fakeUseCase{})

	w, _ := post(t, r, "/api/v1/assistant/chat", map[string]interface{}{"question": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := post(t, r, "/api/v1/assistant/chat", map[string]interface{}{
		"question": "hi",
		"history":  []map[string]interface{}{{"type": "system", "content": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "unknown history message type")
}
