package reflow

// IntBinding wraps Binding[int] with convenience mutators for counters.
// All mutators route through Update, so effective-change semantics and
// watcher notification are identical to a plain Set.
type IntBinding struct {
	*Binding[int]
}

// NewIntBinding creates a new IntBinding with the given initial value.
func NewIntBinding(initial int) *IntBinding {
	return &IntBinding{NewBinding(initial)}
}

// Inc increments the value by 1.
func (b *IntBinding) Inc() {
	b.Update(func(n int) int { return n + 1 })
}

// Dec decrements the value by 1.
func (b *IntBinding) Dec() {
	b.Update(func(n int) int { return n - 1 })
}

// Add adds the given value.
func (b *IntBinding) Add(n int) {
	b.Update(func(v int) int { return v + n })
}

// Sub subtracts the given value.
func (b *IntBinding) Sub(n int) {
	b.Update(func(v int) int { return v - n })
}

// Float64Binding wraps Binding[float64] with convenience mutators.
type Float64Binding struct {
	*Binding[float64]
}

// NewFloat64Binding creates a new Float64Binding with the given initial value.
func NewFloat64Binding(initial float64) *Float64Binding {
	return &Float64Binding{NewBinding(initial)}
}

// Add adds the given value.
func (b *Float64Binding) Add(n float64) {
	b.Update(func(v float64) float64 { return v + n })
}

// Sub subtracts the given value.
func (b *Float64Binding) Sub(n float64) {
	b.Update(func(v float64) float64 { return v - n })
}

// Mul multiplies by the given value.
func (b *Float64Binding) Mul(n float64) {
	b.Update(func(v float64) float64 { return v * n })
}

// Div divides by the given value.
func (b *Float64Binding) Div(n float64) {
	b.Update(func(v float64) float64 { return v / n })
}
