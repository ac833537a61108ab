package tetris

import (
	"fmt"
	"slices"
	"time"
)

// Config is fixed when a Session is created.
type Config struct {
	Width       int `toml:"width"`
	VisibleRows int `toml:"visible_rows"`
	HiddenRows  int `toml:"hidden_rows"`

	// Gravity is the interval between gravity steps indexed by level. It must
	// not increase from one level to the next.
	Gravity    []time.Duration `toml:"gravity"`
	MinGravity time.Duration   `toml:"min_gravity"`

	LockDelay     time.Duration `toml:"lock_delay"`
	MaxLockResets int           `toml:"max_lock_resets"`

	StartLevel    int `toml:"start_level"`
	LinesPerLevel int `toml:"lines_per_level"`

	Seed    int64 `toml:"seed"`
	Cascade bool  `toml:"cascade"`
}

func DefaultConfig() Config {
	return Config{
		Width:         10,
		VisibleRows:   20,
		HiddenRows:    2,
		Gravity:       ClassicGravity(),
		MinGravity:    frames(1),
		LockDelay:     500 * time.Millisecond,
		MaxLockResets: 15,
		LinesPerLevel: 10,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width < 4:
		return fmt.Errorf("%w: width %d is narrower than a piece", ErrInvalidConfig, c.Width)
	case c.VisibleRows < 4:
		return fmt.Errorf("%w: %d visible rows", ErrInvalidConfig, c.VisibleRows)
	case c.HiddenRows < 0:
		return fmt.Errorf("%w: %d hidden rows", ErrInvalidConfig, c.HiddenRows)
	case c.MinGravity <= 0:
		return fmt.Errorf("%w: minimum gravity interval must be positive", ErrInvalidConfig)
	case len(c.Gravity) == 0:
		return fmt.Errorf("%w: empty gravity table", ErrInvalidConfig)
	case c.LockDelay < 0:
		return fmt.Errorf("%w: negative lock delay", ErrInvalidConfig)
	case c.MaxLockResets < 0:
		return fmt.Errorf("%w: negative lock resets", ErrInvalidConfig)
	case c.StartLevel < 0:
		return fmt.Errorf("%w: negative start level", ErrInvalidConfig)
	case c.LinesPerLevel <= 0:
		return fmt.Errorf("%w: lines per level must be positive", ErrInvalidConfig)
	}
	for i, d := range c.Gravity {
		if d <= 0 {
			return fmt.Errorf("%w: gravity for level %d is %v", ErrInvalidConfig, i, d)
		}
		if i > 0 && d > c.Gravity[i-1] {
			return fmt.Errorf("%w: gravity slows down at level %d", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (c Config) policy() Policy {
	return Policy{
		StartLevel:    c.StartLevel,
		LinesPerLevel: c.LinesPerLevel,
		Gravity:       slices.Clone(c.Gravity),
		MinGravity:    c.MinGravity,
	}
}
