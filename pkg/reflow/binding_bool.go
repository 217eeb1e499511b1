package reflow

// BoolBinding wraps Binding[bool] with convenience mutators.
type BoolBinding struct {
	*Binding[bool]
}

// NewBoolBinding creates a new BoolBinding with the given initial value.
func NewBoolBinding(initial bool) *BoolBinding {
	return &BoolBinding{NewBinding(initial)}
}

// Toggle inverts the boolean value.
func (b *BoolBinding) Toggle() {
	b.Update(func(v bool) bool { return !v })
}

// SetTrue sets the value to true.
func (b *BoolBinding) SetTrue() {
	b.Set(true)
}

// SetFalse sets the value to false.
func (b *BoolBinding) SetFalse() {
	b.Set(false)
}
