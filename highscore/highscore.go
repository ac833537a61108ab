// Package highscore keeps the results of finished games.
package highscore

import (
	"blockfall/tetris"
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrInvalidEntry is returned by stores when an entry can't be ranked.
var ErrInvalidEntry = errors.New("invalid entry")

// Entry is one finished game.
type Entry struct {
	ID        string
	Name      string
	Score     int
	Level     int
	Lines     int
	Seed      int64
	CreatedAt time.Time
}

// FromResult builds the entry of a finished game played by name.
func FromResult(name string, r tetris.Result) Entry {
	return Entry{
		Name:      name,
		Score:     r.Score,
		Level:     r.Level,
		Lines:     r.Lines,
		Seed:      r.Seed,
		CreatedAt: time.Now().UTC(),
	}
}

func (e Entry) validate() error {
	switch {
	case e.Name == "":
		return errors.Join(ErrInvalidEntry, errors.New("empty name"))
	case e.Score < 0 || e.Lines < 0 || e.Level < 0:
		return errors.Join(ErrInvalidEntry, errors.New("negative score, lines or level"))
	}
	return nil
}

// Store ranks entries by score, then lines, then age: on a tie the older entry
// ranks first.
type Store interface {
	Add(context.Context, Entry) error
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

func compare(a, b Entry) int {
	return cmp.Or(
		cmp.Compare(b.Score, a.Score),
		cmp.Compare(b.Lines, a.Lines),
		a.CreatedAt.Compare(b.CreatedAt),
	)
}

// MemoryStore is a Store that lives as long as the process.
type MemoryStore struct {
	entries []Entry
	mu      sync.Mutex
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Add(_ context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := slices.BinarySearchFunc(m.entries, e, func(x, e Entry) int {
		// equal entries go after the ones already stored.
		if c := compare(x, e); c != 0 {
			return c
		}
		return -1
	})
	m.entries = slices.Insert(m.entries, i, e)
	return nil
}

func (m *MemoryStore) Top(_ context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n = min(max(n, 0), len(m.entries))
	return slices.Clone(m.entries[:n]), nil
}

func (m *MemoryStore) Close() error { return nil }
