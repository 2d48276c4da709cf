package availability

import (
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func march(employeeID int64) MonthKey {
	return MonthKey{EmployeeID: employeeID, Year: 2025, Month: time.March}
}

func TestCacheApplyLatest(t *testing.T) {
	cache := NewCache()
	key := march(42)

	seq := cache.Begin(key)
	shifts := []*domain.EmployeeShift{{ID: 1}}

	if !cache.Apply(key, seq, shifts) {
		t.Fatalf("最新序号的结果应该被写入")
	}

	got, ok := cache.Get(key)
	if !ok || len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("缓存内容不符，got=%v ok=%v", got, ok)
	}
}

func TestCacheSupersededResponseDiscarded(t *testing.T) {
	cache := NewCache()
	key := march(42)

	// 第一次查询发出后，选择发生变化，第二次查询发出
	firstSeq := cache.Begin(key)
	secondSeq := cache.Begin(key)

	// 第二次查询先返回并被写入
	if !cache.Apply(key, secondSeq, []*domain.EmployeeShift{{ID: 2}}) {
		t.Fatalf("第二次查询的结果应该被写入")
	}

	// 第一次查询的结果迟到，必须被丢弃而不是覆盖
	if cache.Apply(key, firstSeq, []*domain.EmployeeShift{{ID: 1}}) {
		t.Fatalf("过期的结果不应该被写入")
	}

	got, ok := cache.Get(key)
	if !ok || len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("缓存应该只反映第二次查询的结果，got=%v", got)
	}
}

func TestCacheInvalidateDropsInFlight(t *testing.T) {
	cache := NewCache()
	key := march(7)

	seq := cache.Begin(key)
	cache.Invalidate(key)

	if cache.Apply(key, seq, []*domain.EmployeeShift{{ID: 3}}) {
		t.Fatalf("失效后在途查询的结果不应该被写入")
	}
	if _, ok := cache.Get(key); ok {
		t.Fatalf("失效后缓存不应该命中")
	}
}

func TestCacheKeysIndependent(t *testing.T) {
	cache := NewCache()

	keyA := march(1)
	keyB := march(2)

	seqA := cache.Begin(keyA)
	cache.Begin(keyB)
	cache.Begin(keyB)

	// keyB 的序号推进不影响 keyA
	if !cache.Apply(keyA, seqA, []*domain.EmployeeShift{{ID: 9}}) {
		t.Fatalf("不同键的序号应该相互独立")
	}
}
