package recommend

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/user/reelmate/internal/utils"
)

// Entry 缓存条目
type Entry struct {
	Items    []Candidate
	StoredAt time.Time
}

// Cache 推荐结果缓存，按用户存储；过期判断由调用方按 StoredAt 处理
type Cache interface {
	Get(userID int) (Entry, bool)
	Set(userID int, entry Entry)
	// Invalidate 删除用户的缓存，返回删除前是否存在
	Invalidate(userID int) bool
}

// MemoryCache 进程内缓存（go-cache），后台定期清理过期条目
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache ttl 仅用于后台清理，读取时仍按 StoredAt 判断
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	expiration := gocache.NoExpiration
	cleanup := 10 * time.Minute
	if ttl > 0 {
		// 多留一个 TTL，避免清理与读取判断冲突
		expiration = 2 * ttl
		cleanup = ttl
	}
	return &MemoryCache{store: gocache.New(expiration, cleanup)}
}

func (c *MemoryCache) Get(userID int) (Entry, bool) {
	v, ok := c.store.Get(cacheKey(userID))
	if !ok {
		return Entry{}, false
	}
	entry, ok := v.(Entry)
	return entry, ok
}

func (c *MemoryCache) Set(userID int, entry Entry) {
	c.store.SetDefault(cacheKey(userID), entry)
}

func (c *MemoryCache) Invalidate(userID int) bool {
	key := cacheKey(userID)
	if _, ok := c.store.Get(key); !ok {
		return false
	}
	c.store.Delete(key)
	return true
}

// LRUCache 有容量上限的缓存
type LRUCache struct {
	store *utils.LRUCache[int, Entry]
}

// NewLRUCache 条目过期交给调用方判断，这里不设置 TTL
func NewLRUCache(size int) *LRUCache {
	return &LRUCache{store: utils.NewLRUCache[int, Entry](size, 0)}
}

func (c *LRUCache) Get(userID int) (Entry, bool) {
	return c.store.Get(userID)
}

func (c *LRUCache) Set(userID int, entry Entry) {
	c.store.Set(userID, entry)
}

func (c *LRUCache) Invalidate(userID int) bool {
	return c.store.Delete(userID)
}

func cacheKey(userID int) string {
	return "reco:" + strconv.Itoa(userID)
}
