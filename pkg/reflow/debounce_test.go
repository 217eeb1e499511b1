package reflow

import (
	"sync"
	"testing"
	"time"
)

func TestDebounceCoalescesRapidWrites(t *testing.T) {
	b := NewBinding(0)
	d := NewDebounced[int](b, 80*time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var emissions []int
	guard := d.Watch(func(v int) {
		mu.Lock()
		emissions = append(emissions, v)
		mu.Unlock()
	})
	defer guard.Cancel()

	// Three writes inside the window: only the last survives.
	b.Set(1)
	time.Sleep(20 * time.Millisecond)
	b.Set(2)
	time.Sleep(20 * time.Millisecond)
	b.Set(3)

	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(emissions) != 1 || emissions[0] != 3 {
		t.Errorf("expected one emission of 3, got %v", emissions)
	}
	if d.Get() != 3 {
		t.Errorf("expected debounced value 3, got %d", d.Get())
	}
}

func TestDebounceHoldsLastValueUntilSettled(t *testing.T) {
	b := NewBinding(0)
	d := NewDebounced[int](b, 60*time.Millisecond)
	defer d.Stop()

	b.Set(1)
	if d.Get() != 0 {
		t.Errorf("pending write must not be visible yet, got %d", d.Get())
	}

	time.Sleep(200 * time.Millisecond)
	if d.Get() != 1 {
		t.Errorf("expected 1 after settling, got %d", d.Get())
	}
}

func TestDebounceSupersedingWriteCancelsPending(t *testing.T) {
	b := NewBinding(0)
	d := NewDebounced[int](b, 80*time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var emissions []int
	guard := d.Watch(func(v int) {
		mu.Lock()
		emissions = append(emissions, v)
		mu.Unlock()
	})
	defer guard.Cancel()

	// Keep resetting the timer; nothing may emit while writes keep coming.
	for i := 1; i <= 5; i++ {
		b.Set(i)
		time.Sleep(30 * time.Millisecond)
	}

	mu.Lock()
	if len(emissions) != 0 {
		mu.Unlock()
		t.Fatalf("emission fired before the window settled: %v", emissions)
	}
	mu.Unlock()

	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(emissions) != 1 || emissions[0] != 5 {
		t.Errorf("expected single trailing emission of 5, got %v", emissions)
	}
}

func TestDebounceSettleBackToCurrentSuppressed(t *testing.T) {
	b := NewBinding(1)
	d := NewDebounced[int](b, 50*time.Millisecond)
	defer d.Stop()

	fired := 0
	guard := d.Watch(func(int) { fired++ })
	defer guard.Cancel()

	// 1 -> 2 -> 1 inside the window: net no change, no emission.
	b.Set(2)
	time.Sleep(10 * time.Millisecond)
	b.Set(1)

	time.Sleep(200 * time.Millisecond)
	if fired != 0 {
		t.Errorf("value settled back unchanged, expected no emission, got %d", fired)
	}
}

func TestDebounceStop(t *testing.T) {
	b := NewBinding(0)
	d := NewDebounced[int](b, 40*time.Millisecond)

	fired := 0
	guard := d.Watch(func(int) { fired++ })
	defer guard.Cancel()

	b.Set(1)
	d.Stop()
	d.Stop() // idempotent

	time.Sleep(150 * time.Millisecond)
	if fired != 0 {
		t.Errorf("stopped debounce must not emit, got %d", fired)
	}

	// Further upstream writes are ignored entirely.
	b.Set(2)
	time.Sleep(150 * time.Millisecond)
	if d.Get() != 0 {
		t.Errorf("stopped debounce must keep its last value, got %d", d.Get())
	}
}

func TestDebounceInComputedChain(t *testing.T) {
	b := NewBinding(0)
	d := NewDebounced[int](b, 40*time.Millisecond)
	defer d.Stop()

	doubled := Map[int, int](d, func(n int) int { return n * 2 })

	b.Set(21)
	time.Sleep(200 * time.Millisecond)

	if doubled.Get() != 42 {
		t.Errorf("expected 42 through the chain, got %d", doubled.Get())
	}
}

func TestDebounceSupersededExpiryDropped(t *testing.T) {
	b := NewBinding(1)
	d := NewDebounced[int](b, 60*time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var emissions []int
	guard := d.Watch(func(v int) {
		mu.Lock()
		emissions = append(emissions, v)
		mu.Unlock()
	})
	defer guard.Cancel()

	b.Set(2)

	// A timer that fired just as a new write rearmed the delay arrives
	// carrying the old generation. It must not forward the new value
	// before the delay has elapsed again.
	d.emit(0)

	mu.Lock()
	early := len(emissions)
	mu.Unlock()
	if early != 0 {
		t.Errorf("stale expiry forwarded a value: %v", emissions)
	}
	if d.Peek() != 1 {
		t.Errorf("expected unforwarded value 1, got %d", d.Peek())
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(emissions) != 1 || emissions[0] != 2 {
		t.Errorf("expected one emission of 2, got %v", emissions)
	}
}
