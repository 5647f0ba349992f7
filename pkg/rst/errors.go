package rst

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructural is the sentinel wrapped by every StructuralError.
// Use errors.Is(err, rst.ErrStructural) to detect generation-logic bugs.
var ErrStructural = errors.New("structural error")

// StructuralError reports a block or list nesting violation.
// It always indicates a bug in the code driving the Builder, never bad input.
type StructuralError struct {
	// Op is the builder operation that failed (e.g. "end block").
	Op string

	// Want is the kind or marker the caller tried to close.
	Want string

	// Got is the kind or marker actually on top of the stack.
	// Empty when the stack was empty.
	Got string

	// Open lists what was still open, outermost first, for render-time failures.
	Open []string
}

// Error implements error.
func (e *StructuralError) Error() string {
	switch {
	case len(e.Open) > 0:
		return fmt.Sprintf("%s: %s: unclosed %s", ErrStructural, e.Op, strings.Join(e.Open, ", "))
	case e.Got == "":
		return fmt.Sprintf("%s: %s %q: nothing open", ErrStructural, e.Op, e.Want)
	default:
		return fmt.Sprintf("%s: %s %q: innermost open is %q", ErrStructural, e.Op, e.Want, e.Got)
	}
}

// Unwrap returns ErrStructural.
func (e *StructuralError) Unwrap() error {
	return ErrStructural
}
