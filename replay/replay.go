// Package replay stores recorded games as TOML files.
package replay

import (
	"blockfall/tetris"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const version = 1

// ErrMismatch is returned by Verify when a replay doesn't end the way it was
// recorded.
var ErrMismatch = errors.New("replay doesn't match its result")

// File is a recorded game together with how it ended.
type File struct {
	Version   int              `toml:"version"`
	Player    string           `toml:"player"`
	Score     int              `toml:"score"`
	Lines     int              `toml:"lines"`
	Level     int              `toml:"level"`
	Recording tetris.Recording `toml:"recording"`
}

func New(player string, r tetris.Result, rec tetris.Recording) File {
	return File{
		Version:   version,
		Player:    player,
		Score:     r.Score,
		Lines:     r.Lines,
		Level:     r.Level,
		Recording: rec,
	}
}

// Name is the file name a game with seed finished at t is saved under.
func Name(seed int64, t time.Time) string {
	return fmt.Sprintf("%s-%d.toml", t.UTC().Format("20060102T150405"), seed)
}

// Save writes f to path atomically (write temp + rename).
func Save(path string, f File) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling replay: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating replay dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp replay file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming replay file: %w", err)
	}
	return nil
}

func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading replay file: %w", err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing replay file: %w", err)
	}
	if f.Version != version {
		return f, fmt.Errorf("unsupported replay version %d", f.Version)
	}
	return f, nil
}

// Verify plays f again and checks it ends with the recorded result.
func Verify(f File, opts ...tetris.Option) (*tetris.Session, error) {
	s, err := tetris.Replay(f.Recording, opts...)
	if err != nil {
		return nil, err
	}
	snap := s.Snapshot()
	if snap.Score != f.Score || snap.Lines != f.Lines || snap.Level != f.Level {
		return s, fmt.Errorf("%w: recorded %d points and %d lines, replayed %d and %d",
			ErrMismatch, f.Score, f.Lines, snap.Score, snap.Lines)
	}
	return s, nil
}
