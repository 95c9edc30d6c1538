package injector

import (
	assistantbiz "github.com/lk2023060901/model-search-assistant/internal/assistant/biz"
	assistantdata "github.com/lk2023060901/model-search-assistant/internal/assistant/data"
	"github.com/lk2023060901/model-search-assistant/internal/conf"
	searchbiz "github.com/lk2023060901/model-search-assistant/internal/modelsearch/biz"
	searchdata "github.com/lk2023060901/model-search-assistant/internal/modelsearch/data"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/model-search-assistant/internal/pkg/redis"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/workerpool"
	"github.com/lk2023060901/model-search-assistant/internal/registry/provider"
	regtypes "github.com/lk2023060901/model-search-assistant/internal/registry/types"
	"go.uber.org/zap"
)

// Provider functions for dependencies that need config mapping

func provideZapLogger(log *logger.Logger) *zap.Logger {
	return log.Logger
}

// provideRedisClient returns nil when redis is disabled
func provideRedisClient(config *conf.Config, log *logger.Logger) (*pkgredis.Client, func(), error) {
	if !config.Redis.Enabled {
		return nil, func() {}, nil
	}

	client, err := pkgredis.New(&config.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideWorkerPool(config *conf.Config, log *zap.Logger) (*workerpool.Pool, func(), error) {
	pool, err := workerpool.New(&config.Workers, log)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Shutdown, nil
}

func provideHuggingFaceProvider(config *conf.Config, log *logger.Logger) (*provider.HuggingFaceProvider, error) {
	p, err := provider.NewHuggingFaceProvider(regtypes.Config{
		BaseURL: config.Registry.BaseURL,
		APIKey:  config.Registry.APIKey,
		Timeout: config.Registry.Timeout,
		Limit:   config.Registry.Limit,
	}, log)
	if err != nil {
		return nil, err
	}
	if !p.HasAPIKey() {
		log.Warn("registry API key is not configured, proxy requests will fail")
	}
	return p, nil
}

// provideFetcher searches through a remote proxy when one is configured, in-process otherwise
func provideFetcher(config *conf.Config, lister provider.ModelLister, log *logger.Logger) searchbiz.Fetcher {
	if config.Search.ProxyBaseURL != "" {
		log.Info("model search uses remote proxy", zap.String("base_url", config.Search.ProxyBaseURL))
		return searchdata.NewProxyFetcher(config.Search.ProxyBaseURL, config.Search.FetchTimeout, log)
	}
	return searchdata.NewRegistryFetcher(lister)
}

func provideSearchCache(config *conf.Config) searchbiz.Store {
	return searchbiz.NewMemoryCache(searchbiz.CacheConfig{
		TTL:        config.Search.CacheTTL,
		MaxEntries: config.Search.CacheMaxEntries,
	})
}

func provideSearchUseCase(config *conf.Config, fetcher searchbiz.Fetcher, cache searchbiz.Store, log *logger.Logger) (*searchbiz.SearchUseCase, error) {
	return searchbiz.NewSearchUseCase(fetcher, cache, searchbiz.SearchConfig{
		FetchTimeout: config.Search.FetchTimeout,
		Coalesce:     config.Search.Coalesce,
	}, log)
}

// provideCompleter returns a nil Completer when no usable API key is set
func provideCompleter(config *conf.Config, log *logger.Logger) (assistantbiz.Completer, error) {
	if !assistantbiz.IsKeyConfigured(config.Assistant.APIKey) {
		log.Warn("assistant API key is not configured, descriptions use fallback text")
		return nil, nil
	}

	timeout := config.Assistant.DescriptionTimeout
	if config.Assistant.ConversationTimeout > timeout {
		timeout = config.Assistant.ConversationTimeout
	}
	client, err := assistantdata.NewOpenRouterClient(&assistantdata.OpenRouterConfig{
		APIKey:  config.Assistant.APIKey,
		BaseURL: config.Assistant.BaseURL,
		Model:   config.Assistant.Model,
		Referer: config.Assistant.Referer,
		Title:   config.Assistant.Title,
		Timeout: timeout,
	}, log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// provideTokenCounter falls back to an estimate when the tiktoken vocabulary can't be loaded
func provideTokenCounter(config *conf.Config, log *logger.Logger) assistantbiz.TokenCounter {
	counter, err := assistantdata.NewTiktokenCounter(config.Assistant.Encoding)
	if err != nil {
		log.Warn("tiktoken unavailable, using approximate token counts", zap.Error(err))
		return assistantdata.ApproxCounter{}
	}
	return counter
}

func provideAssistantUseCase(
	config *conf.Config,
	completer assistantbiz.Completer,
	counter assistantbiz.TokenCounter,
	pool *workerpool.Pool,
	log *logger.Logger,
) *assistantbiz.AssistantUseCase {
	return assistantbiz.NewAssistantUseCase(assistantbiz.Config{
		APIKey:                  config.Assistant.APIKey,
		Model:                   config.Assistant.Model,
		DescriptionTimeout:      config.Assistant.DescriptionTimeout,
		DescriptionMaxTokens:    config.Assistant.DescriptionMaxTokens,
		DescriptionTemperature:  config.Assistant.DescriptionTemperature,
		ConversationTimeout:     config.Assistant.ConversationTimeout,
		ConversationMaxTokens:   config.Assistant.ConversationMaxTokens,
		ConversationTemperature: config.Assistant.ConversationTemperature,
		HistoryTokenBudget:      config.Assistant.HistoryTokenBudget,
	}, completer, counter, pool, log)
}
