package tetris

import (
	"fmt"
	"log/slog"
	"time"
)

// Event is one accepted stimulus: either an action or a tick of Elapsed.
type Event struct {
	Action  Action        `toml:"action,omitempty"`
	Elapsed time.Duration `toml:"elapsed,omitempty"`
}

// Recording holds everything needed to play a game again.
type Recording struct {
	Config Config  `toml:"config"`
	Events []Event `toml:"events"`
}

// Replay runs rec on a new session and returns it.
func Replay(rec Recording, opts ...Option) (*Session, error) {
	s, err := NewSession(rec.Config, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	for i, e := range rec.Events {
		var ok bool
		if e.Action != "" {
			ok = s.Apply(e.Action)
		} else {
			ok = s.Tick(e.Elapsed)
		}
		if !ok {
			s.logger.Debug("replay event had no effect", slog.Int("index", i))
		}
	}
	return s, nil
}
