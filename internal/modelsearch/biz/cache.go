package biz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
)

// DefaultCacheTTL 缓存有效期
const DefaultCacheTTL = 10 * time.Minute

// Store 搜索结果缓存
type Store interface {
	Get(key string) ([]types.ModelRecord, bool)
	Put(key string, records []types.ModelRecord)
	Stats() types.CacheStats
}

// CacheKey 由原始查询和过滤条件生成缓存键
// 查询带长度前缀，不同查询不会得到同一个键
func CacheKey(query string, filters types.SearchFilters) string {
	encoded, err := json.Marshal(filters)
	if err != nil {
		// SearchFilters 只包含基本类型，不会失败
		encoded = []byte(filters.Task + "|" + string(filters.SortBy))
	}

	h := sha256.New()
	h.Write([]byte(strconv.Itoa(len(query))))
	h.Write([]byte{':'})
	h.Write([]byte(query))
	h.Write([]byte{'|'})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil))
}

// CacheConfig 内存缓存配置
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int // 0 表示不限制
	Clock      func() time.Time
}

type cacheEntry struct {
	records   []types.ModelRecord
	timestamp time.Time
	seq       uint64
}

// MemoryCache 带 TTL 的进程内缓存
// 过期条目读取时忽略但不删除，再次写入时覆盖
type MemoryCache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
	seq     uint64
	hits    int64
	misses  int64
	expired int64
	evicted int64
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(cfg CacheConfig) *MemoryCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MaxEntries < 0 {
		cfg.MaxEntries = 0
	}

	return &MemoryCache{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        cfg.Clock,
		entries:    make(map[string]*cacheEntry),
	}
}

// Get 命中条件：存在且 now - ts < TTL
func (c *MemoryCache) Get(key string) ([]types.ModelRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(entry.timestamp) >= c.ttl {
		c.expired++
		c.misses++
		return nil, false
	}

	c.hits++
	return cloneRecords(entry.records), true
}

// Put 写入并覆盖已有条目
func (c *MemoryCache) Put(key string, records []types.ModelRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = &cacheEntry{
		records:   cloneRecords(records),
		timestamp: c.now(),
		seq:       c.seq,
	}
}

// evictOldestLocked 淘汰最近一次写入最早的条目
func (c *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	for key, entry := range c.entries {
		if !found || entry.seq < oldestSeq {
			oldestKey, oldestSeq, found = key, entry.seq, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evicted++
	}
}

// Len 当前条目数（包含已过期条目）
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats 返回缓存统计
func (c *MemoryCache) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return types.CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		Expired: c.expired,
		Evicted: c.evicted,
	}
}

func cloneRecords(records []types.ModelRecord) []types.ModelRecord {
	out := make([]types.ModelRecord, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
