package tetris

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FramePeriod is the period of the ticker NewGame drives the session with.
const FramePeriod = time.Second / 60

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Session in its own goroutine. Ticks and actions are merged into
// a single stream and applied one at a time, in the order they arrive. Every
// accepted stimulus produces a Snapshot on GetUpdate and is recorded.
type Game struct {
	cfg    Config
	logger *slog.Logger
	ticker Ticker
	period time.Duration

	updateCh chan Snapshot
	resultCh chan Result
	actionCh chan Action
	doneCh   chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	recording Recording
}

func NewGame(cfg Config, l *slog.Logger) *Game {
	t := newWrappedTicker(time.Hour)
	t.Stop()
	return NewConfigurableGame(cfg, t, l)
}

func NewConfigurableGame(cfg Config, ticker Ticker, l *slog.Logger) *Game {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Game{
		cfg:      cfg,
		logger:   l,
		ticker:   ticker,
		period:   FramePeriod,
		updateCh: make(chan Snapshot),
		resultCh: make(chan Result, 1),
		actionCh: make(chan Action),
		doneCh:   make(chan struct{}),
	}
}

// Start creates the session and begins listening for ticks and actions. The
// first Snapshot is sent right away.
func (g *Game) Start() error {
	s, err := NewSession(g.cfg, WithLogger(g.logger))
	if err != nil {
		return fmt.Errorf("unable to start game: %w", err)
	}
	g.mu.Lock()
	g.recording = Recording{Config: g.cfg}
	g.mu.Unlock()
	go g.listen(s)
	return nil
}

// Stop ends the game. It's safe to call more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.doneCh) })
}

// Action queues a player action. It returns without effect once the game has
// stopped.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// GetUpdate delivers a Snapshot after every accepted stimulus. It's closed once
// the game stops, including when it's aborted.
func (g *Game) GetUpdate() <-chan Snapshot { return g.updateCh }

// GetResult delivers the Result once, when the game is over.
func (g *Game) GetResult() <-chan Result { return g.resultCh }

// Recording returns a copy of the accepted stimuli so far.
func (g *Game) Recording() Recording {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := g.recording
	r.Events = append([]Event(nil), g.recording.Events...)
	return r
}

func (g *Game) record(e Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recording.Events = append(g.recording.Events, e)
}

func (g *Game) listen(s *Session) {
	defer close(g.updateCh)
	defer g.ticker.Stop()
	defer func() {
		// an invariant violation ends this game, not the program.
		if r := recover(); r != nil {
			g.logger.Error("game aborted", slog.Any("error", r))
			g.Stop()
		}
	}()

	g.ticker.Reset(g.period)
	if !g.send(s.Snapshot()) {
		return
	}
	var last time.Time
	for {
		select {
		case t := <-g.ticker.C():
			elapsed := g.period
			if !last.IsZero() {
				elapsed = max(t.Sub(last), 0)
			}
			last = t
			if !s.Tick(elapsed) {
				continue
			}
			g.record(Event{Elapsed: elapsed})
		case a := <-g.actionCh:
			if !s.Apply(a) {
				continue
			}
			g.record(Event{Action: a})
		case <-g.doneCh:
			return
		}
		if !g.send(s.Snapshot()) {
			return
		}
		if r, over := s.Result(); over {
			g.resultCh <- r
			g.Stop()
			return
		}
	}
}

func (g *Game) send(s Snapshot) bool {
	select {
	case g.updateCh <- s:
		return true
	case <-g.doneCh:
		return false
	}
}
