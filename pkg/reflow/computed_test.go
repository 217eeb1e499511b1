package reflow

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestComputedBasic(t *testing.T) {
	a := NewBinding(2)
	double := NewComputed(func() int { return a.Get() * 2 })

	if double.Get() != 4 {
		t.Errorf("expected 4, got %d", double.Get())
	}

	a.Set(5)
	if double.Get() != 10 {
		t.Errorf("expected 10 after set, got %d", double.Get())
	}
}

func TestComputedNeverStale(t *testing.T) {
	a := NewBinding(1)
	c := NewComputed(func() int { return a.Get() + 100 })

	// At every observation point the derived value matches the source.
	for i := 0; i < 20; i++ {
		a.Set(i)
		if got := c.Get(); got != a.Get()+100 {
			t.Fatalf("stale read: binding %d, computed %d", a.Get(), got)
		}
	}
}

func TestComputedLazyRecompute(t *testing.T) {
	a := NewBinding(1)

	var runs atomic.Int32
	c := NewComputed(func() int {
		runs.Add(1)
		return a.Get()
	})

	if runs.Load() != 0 {
		t.Errorf("computed must not run before first read, ran %d times", runs.Load())
	}

	_ = c.Get()
	_ = c.Get()
	_ = c.Get()
	if runs.Load() != 1 {
		t.Errorf("repeated reads must hit the cache, ran %d times", runs.Load())
	}

	// Multiple writes before a read coalesce into one recompute.
	a.Set(2)
	a.Set(3)
	a.Set(4)
	if runs.Load() != 1 {
		t.Errorf("writes alone must not recompute, ran %d times", runs.Load())
	}

	if c.Get() != 4 {
		t.Errorf("expected 4, got %d", c.Get())
	}
	if runs.Load() != 2 {
		t.Errorf("expected exactly one recompute after writes, ran %d times", runs.Load())
	}
}

func TestComputedDiamondCoalescing(t *testing.T) {
	root := NewBinding(1)
	left := NewComputed(func() int { return root.Get() + 1 })
	right := NewComputed(func() int { return root.Get() * 10 })

	var runs atomic.Int32
	join := NewComputed(func() int {
		runs.Add(1)
		return left.Get() + right.Get()
	})

	if join.Get() != 12 {
		t.Errorf("expected 12, got %d", join.Get())
	}

	root.Set(2)
	if join.Get() != 23 {
		t.Errorf("expected 23, got %d", join.Get())
	}
	if runs.Load() != 2 {
		t.Errorf("diamond update must recompute join once, ran %d times", runs.Load())
	}
}

func TestComputedDynamicDependencies(t *testing.T) {
	cond := NewBinding(false)
	a := NewBinding("a")
	b := NewBinding("b")

	var runs atomic.Int32
	pick := NewComputed(func() string {
		runs.Add(1)
		if cond.Get() {
			return a.Get()
		}
		return b.Get()
	})

	if pick.Get() != "b" {
		t.Errorf("expected b, got %s", pick.Get())
	}

	// Flip the branch: a is now tracked, b is not.
	cond.Set(true)
	if pick.Get() != "a" {
		t.Errorf("expected a, got %s", pick.Get())
	}
	before := runs.Load()

	// Mutating the untaken branch must not dirty the computed.
	b.Set("bbb")
	_ = pick.Get()
	if runs.Load() != before {
		t.Errorf("stale branch dependency caused a recompute (%d -> %d runs)", before, runs.Load())
	}

	// The taken branch still reacts.
	a.Set("aaa")
	if pick.Get() != "aaa" {
		t.Errorf("expected aaa, got %s", pick.Get())
	}
}

func TestComputedDirtyPropagationNotifiesWatchers(t *testing.T) {
	a := NewBinding(1)
	c := NewComputed(func() int { return a.Get() * 2 })

	var seen []int
	guard := c.Watch(func(v int) { seen = append(seen, v) })
	defer guard.Cancel()

	a.Set(2)
	a.Set(3)

	if len(seen) != 2 || seen[0] != 4 || seen[1] != 6 {
		t.Errorf("expected deliveries [4 6], got %v", seen)
	}
}

func TestComputedWatcherSuppressedWhenValueUnchanged(t *testing.T) {
	a := NewBinding(1)
	parity := NewComputed(func() int { return a.Get() % 2 })

	fired := 0
	guard := parity.Watch(func(int) { fired++ })
	defer guard.Cancel()

	// 1 -> 3: parity stays 1, no delivery.
	a.Set(3)
	if fired != 0 {
		t.Errorf("unchanged computed value must not deliver, got %d", fired)
	}

	a.Set(4)
	if fired != 1 {
		t.Errorf("expected 1 delivery, got %d", fired)
	}
}

func TestComputedChain(t *testing.T) {
	a := NewBinding(1)
	b := NewComputed(func() int { return a.Get() + 1 })
	c := NewComputed(func() int { return b.Get() + 1 })
	d := NewComputed(func() int { return c.Get() + 1 })

	if d.Get() != 4 {
		t.Errorf("expected 4, got %d", d.Get())
	}

	a.Set(10)
	if d.Get() != 13 {
		t.Errorf("expected 13, got %d", d.Get())
	}
}

func TestComputedVersionBumpsOnlyOnChange(t *testing.T) {
	a := NewBinding(1)
	parity := NewComputed(func() int { return a.Get() % 2 })

	_ = parity.Get()
	v0 := parity.Version()

	a.Set(3) // parity unchanged
	_ = parity.Get()
	if parity.Version() != v0 {
		t.Errorf("version must not bump on equal recompute result")
	}

	a.Set(2)
	_ = parity.Get()
	if parity.Version() != v0+1 {
		t.Errorf("expected version %d, got %d", v0+1, parity.Version())
	}
}

func TestComputedConcurrentReadWaitsForCompute(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool

	c := NewComputed(func() int {
		if first.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
		return 42
	})

	got := make(chan int, 2)
	go func() { got <- c.Get() }()
	<-entered
	go func() { got <- c.Get() }()

	// The second reader must wait for the in-flight computation, not
	// hand back the zero value from the unpopulated cache.
	select {
	case v := <-got:
		t.Fatalf("read finished before the computation did: got %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	for i := 0; i < 2; i++ {
		if v := <-got; v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	}
}

func TestComputedConcurrentReadAfterInvalidation(t *testing.T) {
	a := NewBinding(1)
	entered := make(chan struct{})
	release := make(chan struct{})
	var slow atomic.Bool

	c := NewComputed(func() int {
		v := a.Get()
		if slow.Load() {
			close(entered)
			<-release
		}
		return v * 10
	})

	if c.Get() != 10 {
		t.Fatalf("expected 10, got %d", c.Get())
	}

	slow.Store(true)
	a.Set(2)

	got := make(chan int, 2)
	go func() { got <- c.Get() }()
	<-entered
	slow.Store(false)
	go func() { got <- c.Get() }()

	select {
	case v := <-got:
		t.Fatalf("read returned the stale cache: got %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	for i := 0; i < 2; i++ {
		if v := <-got; v != 20 {
			t.Errorf("expected 20, got %d", v)
		}
	}
}
