package availability

import (
	"sync"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

type MonthKey struct {
	EmployeeID int64
	Year       int
	Month      time.Month
}

type cacheEntry struct {
	shifts []*domain.EmployeeShift
	seq    uint64
	valid  bool
}

// Cache 是按 (员工, 月份) 为键的只读投影缓存。
// 每个键维护一个单调递增的请求序号：只有最近一次发起的查询的结果
// 才会被写入，先发起但后返回的过期结果会被丢弃
type Cache struct {
	mu      sync.Mutex
	seq     map[MonthKey]uint64
	entries map[MonthKey]cacheEntry
}

func NewCache() *Cache {
	return &Cache{
		seq:     make(map[MonthKey]uint64),
		entries: make(map[MonthKey]cacheEntry),
	}
}

// Begin 为一次即将发起的查询分配序号，之前发出且尚未返回的查询随即作废
func (c *Cache) Begin(key MonthKey) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq[key]++
	return c.seq[key]
}

// Apply 尝试写入一次查询的结果。只有当 seq 仍然是该键最近分配的序号时
// 才会写入，否则返回 false 并丢弃结果
func (c *Cache) Apply(key MonthKey, seq uint64, shifts []*domain.EmployeeShift) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq[key] {
		return false
	}

	c.entries[key] = cacheEntry{
		shifts: shifts,
		seq:    seq,
		valid:  true,
	}
	return true
}

func (c *Cache) Get(key MonthKey) ([]*domain.EmployeeShift, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.valid {
		return nil, false
	}
	return entry.shifts, true
}

// Invalidate 使某个键的缓存失效，同时推进序号，
// 使所有在途查询的结果都无法再被写入
func (c *Cache) Invalidate(key MonthKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.seq[key]++
}
