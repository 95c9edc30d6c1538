package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client Redis 客户端封装
type Client struct {
	config *Config
	logger *logger.Logger
	rdb    *redis.Client
}

// New 创建 Redis 客户端并做一次健康检查
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.L()
	}

	c := &Client{
		config: cfg,
		logger: log,
		rdb: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	c.logger.Info("redis client initialized", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return c, nil
}

// Key 加上配置的前缀
func (c *Client) Key(parts ...string) string {
	key := c.config.KeyPrefix
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += p
	}
	return key
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return ErrNotInitialized
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.logger.Error("redis ping failed", zap.Error(err))
		return err
	}
	return nil
}

// Script Lua 脚本
type Script = redis.Script

// NewScript 创建 Lua 脚本，首次执行后按 SHA 复用
func NewScript(src string) *Script {
	return redis.NewScript(src)
}

// RunScript 执行 Lua 脚本（EVALSHA，未缓存时回退 EVAL）
func (c *Client) RunScript(ctx context.Context, script *Script, keys []string, args ...interface{}) (interface{}, error) {
	result, err := script.Run(ctx, c.rdb, keys, args...).Result()
	if err != nil {
		c.logger.Error("redis script failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return result, err
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("close redis client failed", zap.Error(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}
