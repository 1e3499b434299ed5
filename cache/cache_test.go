package cache

import (
	"sync"
	"testing"
	"time"
)

// 测试 Set 和 Get 功能
func TestCacheSetGet(t *testing.T) {
	cache := NewCache[string](DefaultExpiration, 0)
	defer cache.Close()

	cache.Set("key1", "value1", DefaultExpiration)
	value, found := cache.Get("key1")
	if !found {
		t.Error("缓存中应存在键 'key1'")
	}
	if value != "value1" {
		t.Errorf("预期值 'value1'，实际得到 '%v'", value)
	}

	// 测试不存在的键
	if _, found = cache.Get("nonexistent"); found {
		t.Error("不应找到键 'nonexistent'")
	}

	// 测试使用自定义过期时间
	cache.Set("key2", "short", 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	if _, found = cache.Get("key2"); found {
		t.Error("键 'key2' 应该已过期")
	}

	// 测试永不过期
	cache.Set("key3", "forever", NoExpiration)
	time.Sleep(100 * time.Millisecond)
	if _, found = cache.Get("key3"); !found {
		t.Error("使用 NoExpiration 的键 'key3' 不应过期")
	}
}

// 测试 Update 在旧值基础上追加
func TestCacheUpdate(t *testing.T) {
	cache := NewCache[[]int](DefaultExpiration, 0)
	defer cache.Close()

	appendFn := func(v int) func([]int, bool) []int {
		return func(old []int, found bool) []int {
			if !found {
				return []int{v}
			}
			return append(old, v)
		}
	}
	cache.Update("k", DefaultExpiration, appendFn(1))
	got := cache.Update("k", DefaultExpiration, appendFn(2))
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("预期 [1 2]，实际得到 %v", got)
	}

	// 过期项应视为不存在
	cache.Set("old", []int{9}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	got = cache.Update("old", DefaultExpiration, appendFn(3))
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("过期项不应被保留，实际得到 %v", got)
	}
}

// 过期项被 Get 判定后、删除前被重新写入，新值不能被删掉
func TestCacheExpiredRewrite(t *testing.T) {
	cache := NewCache[int](DefaultExpiration, 0)
	defer cache.Close()

	cache.Set("k", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cache.Update("k", NoExpiration, func(int, bool) int { return 2 })
	cache.deleteIfExpired("k")
	if v, found := cache.Get("k"); !found || v != 2 {
		t.Errorf("预期新值 2 保留，实际得到 %v, %v", v, found)
	}

	cache.Set("gone", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cache.deleteIfExpired("gone")
	if cache.Len() != 1 {
		t.Errorf("过期项应被删除，剩余 %d 项", cache.Len())
	}
}

// 测试 Delete 功能
func TestCacheDelete(t *testing.T) {
	cache := NewCache[int](DefaultExpiration, 0)
	defer cache.Close()

	cache.Set("key1", 1, DefaultExpiration)
	if _, found := cache.Get("key1"); !found {
		t.Fatal("缓存中应存在键 'key1'")
	}

	cache.Delete("key1")
	if _, found := cache.Get("key1"); found {
		t.Error("删除后不应找到键 'key1'")
	}

	// 删除不存在的键（应该不会出错）
	cache.Delete("nonexistent")
}

// 测试自动过期和 DeleteExpired 功能
func TestCacheExpiration(t *testing.T) {
	cache := NewCache[int](50*time.Millisecond, 100*time.Millisecond)
	defer cache.Close()

	cache.Set("key1", 1, DefaultExpiration)
	cache.Set("key2", 2, 300*time.Millisecond)
	cache.Set("key3", 3, NoExpiration)

	time.Sleep(75 * time.Millisecond)

	if _, found := cache.Get("key1"); found {
		t.Error("键 'key1' 应该已过期")
	}
	if _, found := cache.Get("key2"); !found {
		t.Error("键 'key2' 不应该已过期")
	}

	time.Sleep(300 * time.Millisecond)
	cache.DeleteExpired()

	if cache.Len() != 1 {
		t.Errorf("清理后应只剩 key3，实际数量 %d", cache.Len())
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("键 'key3' 不应过期")
	}
}

// 测试并发安全性
func TestCacheConcurrency(t *testing.T) {
	cache := NewCache[int](5*time.Minute, 0)
	defer cache.Close()

	const workers = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(workers * 2)

	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				cache.Update("counter", DefaultExpiration, func(old int, _ bool) int { return old + 1 })
			}
		}(i)
	}

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				cache.Get("counter")
			}
		}()
	}

	wg.Wait()

	if v, _ := cache.Get("counter"); v != workers*iterations {
		t.Errorf("预期计数 %d，实际得到 %d", workers*iterations, v)
	}
}

// 测试缓存关闭功能
func TestCacheClose(t *testing.T) {
	cache := NewCache[string](DefaultExpiration, time.Minute)

	if err := cache.Close(); err != nil {
		t.Errorf("关闭缓存时出错: %v", err)
	}
	// 重复关闭不应 panic
	if err := cache.Close(); err != nil {
		t.Errorf("重复关闭缓存时出错: %v", err)
	}

	cache.Set("key", "value", DefaultExpiration)
	if value, found := cache.Get("key"); !found || value != "value" {
		t.Errorf("关闭后应仍能使用缓存，得到 %v %v", value, found)
	}
}
