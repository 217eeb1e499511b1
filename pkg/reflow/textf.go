package reflow

import "fmt"

// Textf builds a reactive string: a Computed[string] that re-formats
// whenever any of the referenced signals effectively changes. Its
// dependency set is exactly the signals passed in; it is sugar over
// zipping the sources and mapping fmt.Sprintf across them.
//
//	name := NewBinding("Ada")
//	count := NewBinding(2)
//	label := Textf("%s has %d items", name, count)
//	label.Get() // "Ada has 2 items"
//	count.Set(3)
//	label.Get() // "Ada has 3 items"
//
// Only signals participate. Passing a plain value pulled out of a
// signal (name.Get()) does not compile here, and that is the point:
// a snapshot is pull-once, not subscribed, and formatting it with
// fmt.Sprintf directly produces a string that will never update.
func Textf(format string, sources ...AnySignal) *Computed[string] {
	return NewComputed(func() string {
		args := make([]any, len(sources))
		for i, s := range sources {
			args[i] = s.GetAny()
		}
		return fmt.Sprintf(format, args...)
	})
}

// Text concatenates the stringified values of the given signals into a
// reactive string, with no format directives.
func Text(sources ...AnySignal) *Computed[string] {
	return NewComputed(func() string {
		out := ""
		for _, s := range sources {
			out += fmt.Sprint(s.GetAny())
		}
		return out
	})
}
