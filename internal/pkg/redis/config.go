package redis

import (
	"errors"
	"time"
)

// Config Redis 配置（单机模式）
type Config struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"` // 未启用时不创建客户端

	Addr     string `mapstructure:"addr" yaml:"addr"`         // host:port
	Username string `mapstructure:"username" yaml:"username"` // 用户名（Redis 6.0+）
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`

	// 连接池配置
	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// 键前缀，所有键都会加上
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Enabled:      false,
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "model-search:",
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("redis: addr is required")
	}
	if c.DB < 0 || c.DB > 15 {
		return errors.New("redis: db must be between 0 and 15")
	}
	if c.PoolSize <= 0 {
		return errors.New("redis: pool_size must be > 0")
	}
	if c.MinIdleConns < 0 {
		return errors.New("redis: min_idle_conns must be >= 0")
	}
	if c.MinIdleConns > c.PoolSize {
		return errors.New("redis: min_idle_conns cannot exceed pool_size")
	}
	if c.DialTimeout <= 0 {
		return errors.New("redis: dial_timeout must be > 0")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("redis: read/write timeout must be >= 0")
	}
	return nil
}
