package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/biz"
	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/httpclient"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ProxyPath is where the registry proxy is mounted
const ProxyPath = "/api/huggingface-models"

// ProxyFetcher 通过 HTTP 调用注册中心代理
type ProxyFetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewProxyFetcher 创建代理拉取器，baseURL 为代理所在服务的地址
func NewProxyFetcher(baseURL string, timeout time.Duration, lgr *logger.Logger) *ProxyFetcher {
	if timeout <= 0 {
		timeout = biz.DefaultFetchTimeout
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &ProxyFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpclient.New(timeout),
		logger:     lgr.Named("proxy-fetcher"),
	}
}

// Params 构造代理查询参数，查询 trim 后为空时不发送
func Params(query string, filters types.SearchFilters) url.Values {
	params := url.Values{}
	params.Set("task", filters.Task)
	params.Set("sortBy", string(filters.SortBy))
	params.Set("includeSpaces", fmt.Sprintf("%t", filters.IncludeSpaces))
	params.Set("includeDatasets", fmt.Sprintf("%t", filters.IncludeDatasets))
	params.Set("includeRestricted", fmt.Sprintf("%t", filters.IncludeRestricted))
	if strings.TrimSpace(query) != "" {
		params.Set("query", query)
	}
	return params
}

// FetchModels implements biz.Fetcher
func (f *ProxyFetcher) FetchModels(ctx context.Context, query string, filters types.SearchFilters) ([]types.ModelRecord, error) {
	apiURL := fmt.Sprintf("%s%s?%s", f.baseURL, ProxyPath, Params(query, filters).Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		parsed := gjson.ParseBytes(body)
		f.logger.Warn("proxy returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", parsed.Get("message").String()),
			zap.String("details", parsed.Get("details").Raw))
		return nil, fmt.Errorf("proxy responded with HTTP %d: %s", resp.StatusCode, parsed.Get("message").String())
	}

	return DecodeModels(body)
}

// DecodeModels 解析模型数组，null 视为空列表
func DecodeModels(body []byte) ([]types.ModelRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in model listing")
	}
	if result := gjson.ParseBytes(body); result.Type == gjson.Null {
		return []types.ModelRecord{}, nil
	} else if !result.IsArray() {
		return nil, fmt.Errorf("model listing is not an array")
	}

	var models []types.ModelRecord
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("failed to decode models: %w", err)
	}
	if models == nil {
		models = []types.ModelRecord{}
	}
	return models, nil
}
