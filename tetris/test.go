package tetris

import (
	"sync"
	"time"
)

// MockTicker is a manual implementation of the Ticker interface. Every Tick
// is FramePeriod after the previous one.
type MockTicker struct {
	ch          chan time.Time
	now         time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time), now: time.Unix(0, 0)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick() {
	m.mu.Lock()
	m.now = m.now.Add(FramePeriod)
	now := m.now
	m.mu.Unlock()
	m.ch <- now
}

func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}

func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}

func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// Sequence is a Randomizer that cycles through a fixed list of shapes.
type Sequence struct {
	shapes []Shape
	i      int
}

func NewSequence(shapes ...Shape) *Sequence { return &Sequence{shapes: shapes} }

func (s *Sequence) Next() Shape {
	sh := s.shapes[s.i%len(s.shapes)]
	s.i++
	return sh
}

func (s *Sequence) Peek() Shape { return s.shapes[s.i%len(s.shapes)] }

// NewTestSession creates a session on the default config whose pieces cycle
// through shapes.
func NewTestSession(shapes ...Shape) *Session {
	s, err := NewSession(DefaultConfig(), WithRandomizer(NewSequence(shapes...)))
	if err != nil {
		panic(err)
	}
	return s
}
