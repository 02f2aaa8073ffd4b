package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例（类型列表、站点统计等本地数据）
var Cache *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet 获取缓存值
func CacheGet(key string) (interface{}, bool) {
	return Cache.Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	Cache.Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	Cache.Delete(key)
}

// cacheItem 包装实际的数据，增加过期时间
type cacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// LRUCache 带 TTL 的 LRU 缓存封装（搜索结果等量大但可丢的数据）
type LRUCache[T any] struct {
	storage *lru.Cache[string, cacheItem[T]]
	ttl     time.Duration
}

// NewLRUCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewLRUCache[T any](size int, ttl time.Duration) *LRUCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, cacheItem[T]](size)
	return &LRUCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入缓存（已存在时覆盖）
func (c *LRUCache[T]) Set(key string, value T) {
	c.storage.Add(key, cacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取缓存，带过期检查
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除缓存
func (c *LRUCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Clear 清空所有缓存
func (c *LRUCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前缓存条数
func (c *LRUCache[T]) Len() int {
	return c.storage.Len()
}
