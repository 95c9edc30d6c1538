//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	assistantbiz "github.com/lk2023060901/model-search-assistant/internal/assistant/biz"
	assistantservice "github.com/lk2023060901/model-search-assistant/internal/assistant/service"
	"github.com/lk2023060901/model-search-assistant/internal/conf"
	searchbiz "github.com/lk2023060901/model-search-assistant/internal/modelsearch/biz"
	searchservice "github.com/lk2023060901/model-search-assistant/internal/modelsearch/service"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/registry/provider"
	registryservice "github.com/lk2023060901/model-search-assistant/internal/registry/service"
	"github.com/lk2023060901/model-search-assistant/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Infrastructure
	infraProviderSet,

	// Use cases
	useCaseProviderSet,

	// HTTP services
	httpServiceProviderSet,

	// Servers
	server.NewHTTPServer,
)

var infraProviderSet = wire.NewSet(
	provideZapLogger,
	provideRedisClient,
	provideWorkerPool,
)

var useCaseProviderSet = wire.NewSet(
	provideHuggingFaceProvider,
	wire.Bind(new(provider.ModelLister), new(*provider.HuggingFaceProvider)),
	provideFetcher,
	provideSearchCache,
	provideSearchUseCase,
	provideCompleter,
	provideTokenCounter,
	provideAssistantUseCase,
)

var httpServiceProviderSet = wire.NewSet(
	registryservice.NewProxyService,
	searchservice.NewSearchService,
	wire.Bind(new(searchservice.SearchUseCase), new(*searchbiz.SearchUseCase)),
	assistantservice.NewAssistantService,
	wire.Bind(new(assistantservice.AssistantUseCase), new(*assistantbiz.AssistantUseCase)),
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
