package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装实际的数据，增加写入时间和过期时间
type CacheItem[V any] struct {
	Value     V
	StoredAt  time.Time
	ExpiredAt time.Time
}

// LRUCache 带过期时间的定长 LRU 缓存，线程安全
type LRUCache[K comparable, V any] struct {
	storage *lru.Cache[K, CacheItem[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewLRUCache size 是最大缓存条数，ttl 是数据有效期（<=0 表示不过期）
func NewLRUCache[K comparable, V any](size int, ttl time.Duration) *LRUCache[K, V] {
	if size <= 0 {
		size = 1
	}
	// size > 0 时 lru.New 不会返回错误
	c, _ := lru.New[K, CacheItem[V]](size)
	return &LRUCache[K, V]{
		storage: c,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set 写入（已存在则覆盖并刷新写入时间）
func (c *LRUCache[K, V]) Set(key K, value V) {
	now := c.now()
	item := CacheItem[V]{Value: value, StoredAt: now}
	if c.ttl > 0 {
		item.ExpiredAt = now.Add(c.ttl)
	}
	c.storage.Add(key, item)
}

// Get 读取（带过期检查，过期即删除）
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	item, ok := c.GetItem(key)
	return item.Value, ok
}

// GetItem 读取包含写入时间的完整条目
func (c *LRUCache[K, V]) GetItem(key K) (CacheItem[V], bool) {
	item, ok := c.storage.Get(key)
	if !ok {
		return CacheItem[V]{}, false
	}

	if !item.ExpiredAt.IsZero() && c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return CacheItem[V]{}, false
	}

	return item, true
}

// Delete 删除，返回删除前是否存在
func (c *LRUCache[K, V]) Delete(key K) bool {
	return c.storage.Remove(key)
}

// Clear 清空
func (c *LRUCache[K, V]) Clear() {
	c.storage.Purge()
}

// Len 当前条数（可能包含尚未被读取清理的过期条目）
func (c *LRUCache[K, V]) Len() int {
	return c.storage.Len()
}
