package cache

import (
	"sync"
	"time"
)

// Cache 是一个简单的内存缓存实现
type Cache[V any] struct {
	items             map[string]Item[V]
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	closeOnce         sync.Once
}

// 默认的过期时间常量
const (
	NoExpiration      time.Duration = -1
	DefaultExpiration time.Duration = 0
)

// NewCache 创建一个新的缓存实例
func NewCache[V any](defaultExpiration, cleanupInterval time.Duration) *Cache[V] {
	cache := &Cache[V]{
		items:             make(map[string]Item[V]),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan struct{}),
	}

	// 启动定期清理过期项的协程
	if cleanupInterval > 0 {
		go cache.startCleanupTimer()
	}

	return cache
}

// startCleanupTimer 启动清理定时器
func (c *Cache[V]) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache[V]) newItem(value V, d time.Duration) Item[V] {
	var exp int64
	if d == DefaultExpiration {
		d = c.defaultExpiration
	}
	if d > 0 {
		exp = time.Now().Add(d).UnixNano()
	}
	return Item[V]{
		Value:      value,
		Expiration: exp,
		Created:    time.Now(),
	}
}

// Set 设置缓存项，可指定过期时间
func (c *Cache[V]) Set(key string, value V, d time.Duration) {
	item := c.newItem(value, d)
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

// Update 在写锁内读取旧值并写入 fn 的返回值，过期项视为不存在
func (c *Cache[V]) Update(key string, d time.Duration, fn func(old V, found bool) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	var old V
	item, found := c.items[key]
	if found && !item.Expired() {
		old = item.Value
	} else {
		found = false
	}
	value := fn(old, found)
	c.items[key] = c.newItem(value, d)
	return value
}

// Get 获取缓存项
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return zero, false
	}

	if item.Expired() {
		c.deleteIfExpired(key)
		return zero, false
	}

	return item.Value, true
}

// deleteIfExpired 在写锁内重新检查，释放读锁后该 key 可能已被写入新值
func (c *Cache[V]) deleteIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, found := c.items[key]; found && item.Expired() {
		delete(c.items, key)
	}
}

// Delete 删除缓存项
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len 返回缓存项数量，包含尚未清理的过期项
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// DeleteExpired 删除所有过期的缓存项
func (c *Cache[V]) DeleteExpired() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	for k, v := range c.items {
		if v.Expiration > 0 && now > v.Expiration {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

// Close 关闭缓存清理协程，可以重复调用
func (c *Cache[V]) Close() error {
	if c.cleanupInterval > 0 {
		c.closeOnce.Do(func() { close(c.stopCleanup) })
	}
	return nil
}
