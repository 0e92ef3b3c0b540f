package domain

import (
	"errors"
	"fmt"
)

// ErrInvalid indicates entity data that fails validation. It is always raised
// before any state changes, so a failed setter or constructor leaves the
// entity exactly as it was.
var ErrInvalid = errors.New("invalid entity data")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
