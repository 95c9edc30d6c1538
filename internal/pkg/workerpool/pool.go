package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// TaskResult 任务结果
type TaskResult struct {
	Data  interface{}
	Error error
}

// Config Worker Pool 配置
type Config struct {
	Workers     int  `mapstructure:"workers"`      // 并发 worker 数量
	NonBlocking bool `mapstructure:"non_blocking"` // 池满时直接返回错误而不是等待
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{Workers: 8}
}

// Statistics 统计信息
type Statistics struct {
	Submitted int64
	Completed int64
	Failed    int64
	Panicked  int64
}

// Pool 基于 ants 的 worker pool
type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger

	mu    sync.Mutex
	stats Statistics
}

// New 创建 Worker Pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", config.Workers)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{logger: logger}

	antsPool, err := ants.NewPool(config.Workers,
		ants.WithNonblocking(config.NonBlocking),
		ants.WithPanicHandler(func(v interface{}) {
			p.mu.Lock()
			p.stats.Panicked++
			p.mu.Unlock()
			logger.Error("worker panic", zap.Any("error", v))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	if p.pool.IsClosed() {
		return ErrPoolClosed
	}

	p.mu.Lock()
	p.stats.Submitted++
	p.mu.Unlock()

	err := p.pool.Submit(func() {
		task()
		p.mu.Lock()
		p.stats.Completed++
		p.mu.Unlock()
	})
	if err != nil {
		p.mu.Lock()
		p.stats.Failed++
		p.mu.Unlock()
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// SubmitWithResult 提交带返回值的任务；提交失败时错误也通过 channel 返回
func (p *Pool) SubmitWithResult(task func() (interface{}, error)) <-chan TaskResult {
	resultCh := make(chan TaskResult, 1)

	err := p.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("worker panic", zap.Any("error", r))
				resultCh <- TaskResult{Error: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		data, err := task()
		resultCh <- TaskResult{Data: data, Error: err}
	})
	if err != nil {
		resultCh <- TaskResult{Error: err}
	}

	return resultCh
}

// Running 正在运行的 worker 数
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap 池容量
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats 统计快照
func (p *Pool) Stats() Statistics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Shutdown 关闭池，已提交任务继续执行
func (p *Pool) Shutdown() {
	p.pool.Release()
	stats := p.Stats()
	p.logger.Info("worker pool shut down",
		zap.Int64("submitted", stats.Submitted),
		zap.Int64("completed", stats.Completed))
}
