package reflow

// StringBinding wraps Binding[string] with convenience mutators.
type StringBinding struct {
	*Binding[string]
}

// NewStringBinding creates a new StringBinding with the given initial value.
func NewStringBinding(initial string) *StringBinding {
	return &StringBinding{NewBinding(initial)}
}

// Append adds the given string to the end.
func (b *StringBinding) Append(suffix string) {
	b.Update(func(v string) string { return v + suffix })
}

// Prepend adds the given string to the beginning.
func (b *StringBinding) Prepend(prefix string) {
	b.Update(func(v string) string { return prefix + v })
}

// Clear sets the value to an empty string.
func (b *StringBinding) Clear() {
	b.Set("")
}

// Len returns the length of the string.
// This reads the binding and creates a dependency.
func (b *StringBinding) Len() int {
	return len(b.Get())
}

// IsEmpty returns true if the string is empty.
// This reads the binding and creates a dependency.
func (b *StringBinding) IsEmpty() bool {
	return b.Get() == ""
}
