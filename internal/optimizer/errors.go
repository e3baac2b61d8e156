package optimizer

import (
	"errors"
	"fmt"
)

// ErrMissingElement matches every *MissingExpectedElementError via errors.Is.
var ErrMissingElement = errors.New("missing expected element")

// MissingExpectedElementError reports a page whose template lacks an element
// a step cannot work without. Retrying the same input fails the same way.
type MissingExpectedElementError struct {
	Step     string
	Selector string
}

func (e *MissingExpectedElementError) Error() string {
	return fmt.Sprintf("%s: missing expected element %q", e.Step, e.Selector)
}

func (e *MissingExpectedElementError) Is(target error) bool { return target == ErrMissingElement }
