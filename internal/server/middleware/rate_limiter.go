package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/lk2023060901/model-search-assistant/internal/pkg/errors"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/redis"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/validator"
	"go.uber.org/zap"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	// 时间窗口内允许的最大请求数
	MaxRequests int
	// 时间窗口（秒）
	WindowSeconds int
	// 限流策略：endpoint, ip（默认）
	Strategy string
}

// ScriptRunner 执行限流脚本的 Redis 客户端
type ScriptRunner interface {
	Key(parts ...string) string
	RunScript(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (interface{}, error)
}

// slidingWindow 原子滑动窗口：毫秒时间戳为分值，成员唯一
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

	local current = redis.call('ZCARD', key)
	if current < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window)
		return {1, limit - current - 1, now + window}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2]
	return {0, 0, tonumber(oldest) + window}
`)

// RateLimiter 基于 Redis 的滑动窗口限流中间件
func RateLimiter(runner ScriptRunner, cfg RateLimiterConfig, log *logger.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 60
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 60
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "ip"
	}
	if log == nil {
		log = logger.L()
	}

	return func(c *gin.Context) {
		key := runner.Key(buildRateLimitKey(c, cfg.Strategy)...)

		allowed, remaining, resetMillis, err := checkRateLimit(c.Request.Context(), runner, key, cfg)
		if err != nil {
			log.Error("rate limiter error", zap.Error(err), zap.String("key", key))
			// 限流器故障时放行
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetMillis/1000, 10))

		if !allowed {
			retryAfter := (resetMillis - time.Now().UnixMilli() + 999) / 1000
			if retryAfter <= 0 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    apperrors.ErrTooManyRequests,
				"message": fmt.Sprintf("too many requests, please try again in %d seconds", retryAfter),
			})
			return
		}

		c.Next()
	}
}

// 无法解析出客户端 IP 的请求共用一个桶
const unknownClient = "unknown"

// buildRateLimitKey 构建限流 key 片段
func buildRateLimitKey(c *gin.Context, strategy string) []string {
	ip := validator.GetIPOrDefault(c.ClientIP(), unknownClient)
	switch strategy {
	case "endpoint":
		return []string{"rate_limit", "endpoint", c.FullPath(), ip}
	default:
		return []string{"rate_limit", "ip", ip}
	}
}

// checkRateLimit 返回是否放行、剩余次数和窗口重置时间（毫秒）
func checkRateLimit(ctx context.Context, runner ScriptRunner, key string, cfg RateLimiterConfig) (bool, int, int64, error) {
	now := time.Now().UnixMilli()
	window := int64(cfg.WindowSeconds) * 1000

	result, err := runner.RunScript(ctx, slidingWindow, []string{key}, now, window, cfg.MaxRequests, uuid.NewString())
	if err != nil {
		return false, 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, fmt.Errorf("invalid rate limit result: %v", result)
	}

	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	reset, _ := values[2].(int64)
	return allowed == 1, int(remaining), reset, nil
}
