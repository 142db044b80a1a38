package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversAllItems(t *testing.T) {
	const items = 103

	var touched [items]int32
	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i, n := range touched {
		if n != 1 {
			t.Errorf("Item %d processed %d times, want 1", i, n)
		}
	}
}

func TestParallelize_ZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) {
		called = true
	})
	if called {
		t.Error("fn should not be called for zero items")
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	// At or below the threshold the whole range arrives in one call.
	calls := 0
	ParallelizeWithThreshold(5, 10, func(start, end int) {
		calls++
		if start != 0 || end != 5 {
			t.Errorf("Expected single range (0, 5), got (%d, %d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("Expected 1 sequential call, got %d", calls)
	}
}

func TestParallelizeWithThreshold_AboveThreshold(t *testing.T) {
	const items = 64

	var touched [items]int32
	ParallelizeWithThreshold(items, 8, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i, n := range touched {
		if n != 1 {
			t.Errorf("Item %d processed %d times, want 1", i, n)
		}
	}
}
