package tetris

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant is wrapped by every panic raised when the engine detects a
	// defect in its own rules (a commit over an occupied cell, a spawn outside
	// the stack, a rotation index the catalog doesn't define). It is never a
	// game condition.
	ErrInvariant = errors.New("tetris: invariant violation")

	// ErrInvalidConfig is wrapped by the errors returned from Config.Validate.
	ErrInvalidConfig = errors.New("tetris: invalid config")
)

func invariant(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...)))
}
