package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/pkg/httpclient"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/registry/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxBodySize caps how much of a registry response is read
const maxBodySize = 8 << 20

// ModelLister lists models from the registry. The returned body is the registry's
// JSON array, untouched.
type ModelLister interface {
	ListModels(ctx context.Context, req *types.ListRequest) ([]byte, error)
	HasAPIKey() bool
}

// HuggingFaceProvider calls GET /api/models on the Hugging Face hub
type HuggingFaceProvider struct {
	config     types.Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewHuggingFaceProvider creates a new Hugging Face provider
func NewHuggingFaceProvider(config types.Config, lgr *logger.Logger) (*HuggingFaceProvider, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if lgr == nil {
		lgr = logger.L()
	}

	return &HuggingFaceProvider{
		config:     config,
		httpClient: httpclient.New(config.Timeout),
		logger:     lgr.Named("registry"),
	}, nil
}

// HasAPIKey reports whether the credential is configured
func (p *HuggingFaceProvider) HasAPIKey() bool {
	return p.config.HasAPIKey()
}

// BuildParams builds the registry query string
func (p *HuggingFaceProvider) BuildParams(req *types.ListRequest) url.Values {
	params := url.Values{}
	params.Set("sort", req.UpstreamSort())
	params.Set("direction", "-1")
	params.Set("limit", strconv.Itoa(p.config.Limit))
	params.Set("full", "true")

	if req.Task != "" {
		params.Add("filter", req.Task)
	}
	if !req.IncludeRestricted {
		params.Add("filter", "not:gated")
	}
	if req.HasQuery() {
		params.Set("search", req.Query)
	}
	return params
}

// ListModels executes the registry call
func (p *HuggingFaceProvider) ListModels(ctx context.Context, req *types.ListRequest) ([]byte, error) {
	if !p.HasAPIKey() {
		return nil, types.ErrMissingAPIKey
	}

	startTime := time.Now()
	params := p.BuildParams(req)
	apiURL := fmt.Sprintf("%s/api/models?%s", p.config.BaseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	p.logger.Debug("calling registry",
		zap.String("sort", params.Get("sort")),
		zap.Strings("filter", params["filter"]),
		zap.Bool("has_search", req.HasQuery()))

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &types.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &types.UpstreamError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("registry returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("error", gjson.GetBytes(body, "error").String()))
		return nil, &types.UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return nil, &types.UpstreamError{Err: types.ErrInvalidResponse}
	}

	p.logger.Debug("registry call succeeded",
		zap.Int("count", int(gjson.GetBytes(body, "#").Int())),
		zap.Int64("took_ms", time.Since(startTime).Milliseconds()))
	return body, nil
}
