package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	assistantservice "github.com/lk2023060901/model-search-assistant/internal/assistant/service"
	"github.com/lk2023060901/model-search-assistant/internal/conf"
	searchservice "github.com/lk2023060901/model-search-assistant/internal/modelsearch/service"
	apperrors "github.com/lk2023060901/model-search-assistant/internal/pkg/errors"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/redis"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/response"
	registryservice "github.com/lk2023060901/model-search-assistant/internal/registry/service"
	"github.com/lk2023060901/model-search-assistant/internal/server/middleware"
	"go.uber.org/zap"
)

type HTTPServer struct {
	server *http.Server
	router *gin.Engine
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	redisClient *redis.Client,
	proxyService *registryservice.ProxyService,
	searchService *searchservice.SearchService,
	assistantService *assistantservice.AssistantService,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{
		SkipPaths: []string{"/health"},
	}))
	router.Use(cors())

	router.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, apperrors.ErrNotFound, c.Request.URL.Path)
	})
	router.GET("/health", healthHandler(redisClient))

	api := router.Group("/api")
	if config.RateLimit.Enabled && redisClient != nil {
		api.Use(middleware.RateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests:   config.RateLimit.MaxRequests,
			WindowSeconds: config.RateLimit.WindowSeconds,
			Strategy:      config.RateLimit.Strategy,
		}, log))
	}

	// registry proxy; any method so non-GET gets a 405 body
	api.Any("/huggingface-models", proxyService.ListModels)

	v1 := api.Group("/v1")
	search := v1.Group("/search")
	search.GET("", searchService.Search)
	search.GET("/stats", searchService.Stats)
	search.GET("/tasks", searchService.Tasks)

	assistant := v1.Group("/assistant")
	assistant.GET("/status", assistantService.Status)
	assistant.POST("/describe", assistantService.Describe)
	assistant.POST("/describe/batch", assistantService.DescribeBatch)
	assistant.POST("/chat", assistantService.Chat)

	return &HTTPServer{
		server: &http.Server{
			Addr:              config.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
		logger: log,
	}
}

// Handler exposes the router, mainly for tests
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

func healthHandler(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				body["redis"] = fmt.Sprintf("unavailable: %v", err)
			} else {
				body["redis"] = "ok"
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

// cors allows any origin, like the browser-facing proxy always has
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
