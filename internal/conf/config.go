package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/redis"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/workerpool"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       logger.Config     `mapstructure:"log"`
	Redis     redis.Config      `mapstructure:"redis"`
	Registry  RegistryConfig    `mapstructure:"registry"`
	Search    SearchConfig      `mapstructure:"search"`
	Assistant AssistantConfig   `mapstructure:"assistant"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
	Workers   workerpool.Config `mapstructure:"workers"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// RegistryConfig configures the upstream Hugging Face call made by the proxy.
type RegistryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Limit   int           `mapstructure:"limit"`
}

// SearchConfig configures the client-side search layer.
type SearchConfig struct {
	// ProxyBaseURL is where /api/huggingface-models lives. Empty means in-process.
	ProxyBaseURL    string        `mapstructure:"proxy_base_url"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries"`
	Coalesce        bool          `mapstructure:"coalesce"`
}

type AssistantConfig struct {
	BaseURL                 string        `mapstructure:"base_url"`
	APIKey                  string        `mapstructure:"api_key"`
	Model                   string        `mapstructure:"model"`
	Referer                 string        `mapstructure:"referer"`
	Title                   string        `mapstructure:"title"`
	DescriptionTimeout      time.Duration `mapstructure:"description_timeout"`
	DescriptionMaxTokens    int           `mapstructure:"description_max_tokens"`
	DescriptionTemperature  float32       `mapstructure:"description_temperature"`
	ConversationTimeout     time.Duration `mapstructure:"conversation_timeout"`
	ConversationMaxTokens   int           `mapstructure:"conversation_max_tokens"`
	ConversationTemperature float32       `mapstructure:"conversation_temperature"`
	HistoryTokenBudget      int           `mapstructure:"history_token_budget"`
	Encoding                string        `mapstructure:"encoding"`
}

type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MaxRequests   int    `mapstructure:"max_requests"`
	WindowSeconds int    `mapstructure:"window_seconds"`
	Strategy      string `mapstructure:"strategy"`
}

// LoadConfig reads path (optional) and the environment on top of built-in defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("registry.api_key", "REGISTRY_API_KEY", "HF_API_KEY")
	_ = v.BindEnv("assistant.api_key", "ASSISTANT_API_KEY", "OPENROUTER_API_KEY", "VITE_OPENROUTER_API_KEY")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	logDefaults := logger.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
	v.SetDefault("log.enablecaller", logDefaults.EnableCaller)
	v.SetDefault("log.enablestacktrace", logDefaults.EnableStacktrace)
	v.SetDefault("log.file.filename", logDefaults.File.Filename)
	v.SetDefault("log.file.maxsize", logDefaults.File.MaxSize)
	v.SetDefault("log.file.maxage", logDefaults.File.MaxAge)
	v.SetDefault("log.file.maxbackups", logDefaults.File.MaxBackups)
	v.SetDefault("log.file.compress", logDefaults.File.Compress)

	redisDefaults := redis.DefaultConfig()
	v.SetDefault("redis.enabled", redisDefaults.Enabled)
	v.SetDefault("redis.addr", redisDefaults.Addr)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", redisDefaults.DB)
	v.SetDefault("redis.pool_size", redisDefaults.PoolSize)
	v.SetDefault("redis.min_idle_conns", redisDefaults.MinIdleConns)
	v.SetDefault("redis.dial_timeout", redisDefaults.DialTimeout)
	v.SetDefault("redis.read_timeout", redisDefaults.ReadTimeout)
	v.SetDefault("redis.write_timeout", redisDefaults.WriteTimeout)
	v.SetDefault("redis.key_prefix", redisDefaults.KeyPrefix)

	v.SetDefault("registry.base_url", "https://huggingface.co")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.timeout", 10*time.Second)
	v.SetDefault("registry.limit", 5)

	v.SetDefault("search.proxy_base_url", "")
	v.SetDefault("search.fetch_timeout", 15*time.Second)
	v.SetDefault("search.cache_ttl", 10*time.Minute)
	v.SetDefault("search.cache_max_entries", 0)
	v.SetDefault("search.coalesce", false)

	v.SetDefault("assistant.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("assistant.referer", "http://localhost:5000")
	v.SetDefault("assistant.title", "HuggingFace Model Search Assistant")
	v.SetDefault("assistant.description_timeout", 10*time.Second)
	v.SetDefault("assistant.description_max_tokens", 300)
	v.SetDefault("assistant.description_temperature", 0.3)
	v.SetDefault("assistant.conversation_timeout", 15*time.Second)
	v.SetDefault("assistant.conversation_max_tokens", 400)
	v.SetDefault("assistant.conversation_temperature", 0.5)
	v.SetDefault("assistant.history_token_budget", 2000)
	v.SetDefault("assistant.encoding", "cl100k_base")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.max_requests", 60)
	v.SetDefault("ratelimit.window_seconds", 60)
	v.SetDefault("ratelimit.strategy", "ip")

	v.SetDefault("workers.workers", workerpool.DefaultConfig().Workers)
	v.SetDefault("workers.non_blocking", false)
}

// Addr returns host:port for the HTTP listener
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
