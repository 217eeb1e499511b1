package reflow

import (
	"fmt"
	"sync"
	"testing"
)

// TestCounterScenario is the end-to-end smoke test: a counter binding,
// a derived doubling, and the mutation paths a UI consumer would use.
func TestCounterScenario(t *testing.T) {
	counter := NewBinding(0)
	doubled := Map[int, int](counter, func(n int) int { return n * 2 })

	if doubled.Get() != 0 {
		t.Errorf("expected 0, got %d", doubled.Get())
	}

	counter.Set(5)
	if doubled.Get() != 10 {
		t.Errorf("expected 10, got %d", doubled.Get())
	}

	counter.Update(func(n int) int { return n + 1 })
	if doubled.Get() != 12 {
		t.Errorf("expected 12, got %d", doubled.Get())
	}
}

// TestFormScenario strings several primitives together the way a form
// component would: gated inputs, derived validity, a reactive label.
func TestFormScenario(t *testing.T) {
	name := NewStringBinding("")
	age := Ranged(NewBinding(0), 0, 130)

	valid := ZipWith[string, int, bool](name.Binding, age.Binding, func(n string, a int) bool {
		return n != "" && a > 0
	})
	summary := Textf("%s (%d)", name, age)

	if valid.Get() {
		t.Error("empty form must not be valid")
	}

	name.Set("Ada")
	age.Set(36)
	if !valid.Get() {
		t.Error("filled form must be valid")
	}
	if summary.Get() != "Ada (36)" {
		t.Errorf("unexpected summary %q", summary.Get())
	}

	// Out-of-range input is silently dropped; the form stays valid.
	age.Set(500)
	if got := age.Get(); got != 36 {
		t.Errorf("expected 36 after rejected write, got %d", got)
	}
	if !valid.Get() {
		t.Error("rejected write must not invalidate the form")
	}
}

// TestCrossGoroutineMutation exercises a background task mutating state
// that a watcher on another goroutine's registration observes.
func TestCrossGoroutineMutation(t *testing.T) {
	progress := NewBinding(0)

	var mu sync.Mutex
	var seen []int
	guard := progress.Watch(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})
	defer guard.Cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 5; i++ {
			progress.Set(i * 20)
		}
	}()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 5 || seen[4] != 100 {
		t.Errorf("expected 5 deliveries ending at 100, got %v", seen)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	b := NewBinding(0)
	derived := Map[int, int](b, func(n int) int { return n + 1 })

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Readers hammer the derived value while writers mutate; the race
	// detector is the real assertion here.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = derived.Get()
				}
			}
		}()
	}

	var writers sync.WaitGroup
	for i := 0; i < 4; i++ {
		writers.Add(1)
		go func(base int) {
			defer writers.Done()
			for j := 0; j < 500; j++ {
				b.Set(base*1000 + j)
			}
		}(i)
	}

	writers.Wait()
	close(stop)
	wg.Wait()

	if derived.Get() != b.Get()+1 {
		t.Errorf("settled mismatch: binding %d, derived %d", b.Get(), derived.Get())
	}
}

func ExampleTextf() {
	city := NewBinding("Paris")
	temp := NewBinding(21)

	label := Textf("%s: %d°C", city, temp)
	fmt.Println(label.Get())

	temp.Set(25)
	fmt.Println(label.Get())

	// Output:
	// Paris: 21°C
	// Paris: 25°C
}
