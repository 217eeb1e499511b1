package main

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/reflow-ui/reflow/pkg/observe"
	"github.com/reflow-ui/reflow/pkg/reflow"
)

type runConfig struct {
	Bindings int
	Depth    int
	Writers  int
	Duration time.Duration
	Debounce time.Duration
}

func runCmd() *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the stress benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.Bindings, "bindings", 64, "Number of root bindings")
	cmd.Flags().IntVar(&cfg.Depth, "depth", 4, "Computed chain depth per binding")
	cmd.Flags().IntVar(&cfg.Writers, "writers", 8, "Concurrent writer goroutines")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 5*time.Second, "How long to run")
	cmd.Flags().DurationVar(&cfg.Debounce, "debounce", 0, "Optional debounce on chain tails (0 = disabled)")

	return cmd
}

// chain is one binding plus its derived column.
type chain struct {
	root *reflow.Binding[int]
	tail reflow.Signal[int]
}

func runBench(cfg runConfig) error {
	registry := prometheus.NewRegistry()
	observe.EnableMetrics(observe.WithRegistry(registry))

	chains := make([]*chain, cfg.Bindings)
	guards := make([]*reflow.WatcherGuard, cfg.Bindings)
	var delivered atomic.Uint64

	for i := range chains {
		root := reflow.NewBinding(0)
		var tail reflow.Signal[int] = root
		for d := 0; d < cfg.Depth; d++ {
			tail = reflow.Map(tail, func(n int) int { return n + 1 })
		}
		if cfg.Debounce > 0 {
			tail = reflow.NewDebounced(tail, cfg.Debounce)
		}
		guards[i] = tail.Watch(func(int) {
			delivered.Add(1)
		})
		chains[i] = &chain{root: root, tail: tail}
	}

	fmt.Printf("running: %d bindings x depth %d, %d writers, %s\n",
		cfg.Bindings, cfg.Depth, cfg.Writers, cfg.Duration)

	var writes atomic.Uint64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for w := 0; w < cfg.Writers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}
				c := chains[rng.Intn(len(chains))]
				c.root.Update(func(n int) int { return n + 1 })
				writes.Add(1)
			}
		}(int64(w) + 1)
	}

	start := time.Now()
	time.Sleep(cfg.Duration)
	close(stop)
	wg.Wait()
	elapsed := time.Since(start)

	// Give trailing debounce timers a chance to fire before reading.
	if cfg.Debounce > 0 {
		time.Sleep(2 * cfg.Debounce)
	}

	// Every chain tail must equal its root plus the chain depth.
	inconsistent := 0
	for _, c := range chains {
		if cfg.Debounce > 0 {
			continue // debounced tails trail their roots
		}
		if c.tail.Get() != c.root.Get()+cfg.Depth {
			inconsistent++
		}
	}

	for _, g := range guards {
		g.Cancel()
	}

	total := writes.Load()
	fmt.Printf("writes:       %d (%.0f/s)\n", total, float64(total)/elapsed.Seconds())
	fmt.Printf("deliveries:   %d\n", delivered.Load())
	fmt.Printf("inconsistent: %d\n", inconsistent)

	dumpMetrics(registry)

	if inconsistent > 0 {
		return fmt.Errorf("%d chain tails out of sync", inconsistent)
	}
	return nil
}

// dumpMetrics prints the collected counters in plain text.
func dumpMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		fmt.Printf("metrics gather failed: %v\n", err)
		return
	}

	fmt.Println("metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("  %-40s %.0f\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Printf("  %-40s %.0f\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Printf("  %-40s count=%d sum=%.0f\n", mf.GetName(), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
}
