// Package tetris contains the rules of the game
// based on https://tetris.wiki/Tetris_Guideline
//
// A Session is a deterministic state machine: given the same Config (seed
// included) and the same sequence of actions and ticks it always goes
// through the same states. It does no I/O and never blocks.
package tetris

import (
	"log/slog"
	"time"
)

type Action string

const (
	MoveLeft  Action = "left"      // Moves the Tetromino one step to the left.
	MoveRight Action = "right"     // Moves the Tetromino one step to the right.
	SoftDrop  Action = "down"      // Moves the Tetromino one step down, locks it if it can't.
	HardDrop  Action = "drop"      // Drops the Tetromino down the stack and locks it.
	RotateCW  Action = "rotatecw"  // Rotates the Tetromino clockwise.
	RotateCCW Action = "rotateccw" // Rotates the Tetromino counter-clockwise.
	Pause     Action = "pause"     // Freezes the game.
	Resume    Action = "resume"    // Unfreezes the game.
)

// State of a Session. Locking is the lock delay part of Falling; it's kept
// apart because it changes what moves do to the lock timer.
type State int

const (
	Spawning State = iota
	Falling
	Locking
	LineClear
	GameOver
)

func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Falling:
		return "falling"
	case Locking:
		return "locking"
	case LineClear:
		return "lineclear"
	case GameOver:
		return "gameover"
	}
	return "unknown"
}

// Result is handed out once, when the game is over.
type Result struct {
	Score   int
	Level   int
	Lines   int
	Ticks   int
	Elapsed time.Duration
	Seed    int64
}

// PieceView describes the active piece in a Snapshot.
type PieceView struct {
	Kind     Shape
	Rotation int
	Row, Col int
	Cells    []Point
}

// Snapshot is a copy of the session state that is safe to keep around.
type Snapshot struct {
	Stack      [][]Cell
	Width      int
	Height     int
	HiddenRows int
	Active     *PieceView
	Ghost      []Point
	Next       Shape
	Score      int
	Level      int
	Lines      int
	Ticks      int
	LastClear  []int
	Paused     bool
	GameOver   bool
}

// Visible returns the rows of the stack below the hidden ones.
func (s Snapshot) Visible() [][]Cell { return s.Stack[s.HiddenRows:] }

type Option func(*Session)

// WithLogger sets the logger rejected commands and state changes are
// reported to, at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRandomizer replaces the seeded bag.
func WithRandomizer(r Randomizer) Option {
	return func(s *Session) { s.rand = r }
}

// WithResultHandler registers f to receive the Result when the game ends.
func WithResultHandler(f func(Result)) Option {
	return func(s *Session) { s.onResult = f }
}

type Session struct {
	cfg      Config
	policy   Policy
	board    *Board
	ctrl     *Controller
	rand     Randomizer
	logger   *slog.Logger
	onResult func(Result)

	state     State
	paused    bool
	score     int
	level     int
	lines     int
	ticks     int
	elapsed   time.Duration
	gravity   time.Duration
	interval  time.Duration
	lastClear []int
	result    *Result
}

// NewSession validates cfg and spawns the first piece.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := NewBoard(cfg.Width, cfg.VisibleRows, cfg.HiddenRows)
	s := &Session{
		cfg:    cfg,
		policy: cfg.policy(),
		board:  b,
		ctrl:   NewController(b, cfg.LockDelay, cfg.MaxLockResets),
		level:  cfg.StartLevel,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rand == nil {
		s.rand = NewBag(cfg.Seed)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.interval = s.policy.GravityIntervalFor(s.level)
	s.spawn()
	return s, nil
}

// Apply runs a player action and reports whether it was accepted.
func (s *Session) Apply(a Action) bool {
	if s.state == GameOver {
		return s.reject(a, "game over")
	}
	switch a {
	case Pause:
		if s.paused {
			return s.reject(a, "already paused")
		}
		s.paused = true
		return true
	case Resume:
		if !s.paused {
			return s.reject(a, "not paused")
		}
		s.paused = false
		return true
	}
	if s.paused {
		return s.reject(a, "paused")
	}

	var o Outcome
	switch a {
	case MoveLeft:
		o = s.ctrl.MoveLeft()
	case MoveRight:
		o = s.ctrl.MoveRight()
	case RotateCW:
		o = s.ctrl.Rotate(Clockwise)
	case RotateCCW:
		o = s.ctrl.Rotate(CounterClockwise)
	case SoftDrop:
		o = s.ctrl.SoftDrop()
	case HardDrop:
		o = s.ctrl.HardDrop()
	default:
		return s.reject(a, "unknown action")
	}
	if o == Rejected {
		return s.reject(a, "blocked")
	}
	s.settle(o)
	return true
}

// Tick advances the clock by elapsed. Gravity steps once per interval; while
// the piece rests on the stack the time goes to the lock delay instead.
// It reports whether the tick was accepted.
func (s *Session) Tick(elapsed time.Duration) bool {
	if s.state == GameOver || s.paused || elapsed < 0 {
		return false
	}
	s.ticks++
	s.elapsed += elapsed

	if s.ctrl.Locking() {
		s.settle(s.ctrl.AdvanceLock(elapsed))
		return true
	}
	s.gravity += elapsed
	o := Rejected
	for s.gravity >= s.interval {
		s.gravity -= s.interval
		if o = s.ctrl.TickGravity(); o == Locked || s.ctrl.Locking() {
			s.gravity = 0
			break
		}
	}
	s.settle(o)
	return true
}

// settle moves the state machine along after the controller acted.
func (s *Session) settle(o Outcome) {
	if o == Locked {
		s.lineClear()
		s.spawn()
		return
	}
	if s.state == GameOver {
		return
	}
	if s.ctrl.Locking() {
		s.state = Locking
	} else {
		s.state = Falling
	}
}

func (s *Session) lineClear() {
	s.state = LineClear
	var passes []ClearResult
	if s.cfg.Cascade {
		passes = Cascade(s.board)
	} else if r := Evaluate(s.board); r.Count() > 0 {
		passes = []ClearResult{r}
	}
	s.lastClear = nil
	for _, p := range passes {
		s.score += s.policy.OnClear(p.Count(), s.level)
		s.lines += p.Count()
		s.lastClear = append(s.lastClear, p.Rows...)
	}
	if len(passes) == 0 {
		return
	}
	s.level = max(s.level, s.policy.OnLinesAccumulated(s.lines))
	s.interval = s.policy.GravityIntervalFor(s.level)
	s.logger.Debug("lines cleared",
		slog.Any("rows", s.lastClear),
		slog.Int("score", s.score),
		slog.Int("level", s.level),
	)
}

func (s *Session) spawn() {
	s.state = Spawning
	s.gravity = 0
	kind := s.rand.Next()
	if !s.ctrl.Spawn(kind) {
		s.gameOver()
		return
	}
	s.state = Falling
}

func (s *Session) gameOver() {
	s.state = GameOver
	s.paused = false
	r := Result{
		Score:   s.score,
		Level:   s.level,
		Lines:   s.lines,
		Ticks:   s.ticks,
		Elapsed: s.elapsed,
		Seed:    s.cfg.Seed,
	}
	s.result = &r
	s.logger.Debug("game over", slog.Int("score", r.Score), slog.Int("lines", r.Lines))
	if s.onResult != nil {
		s.onResult(r)
	}
}

func (s *Session) reject(a Action, reason string) bool {
	s.logger.Debug("action rejected", slog.String("action", string(a)), slog.String("reason", reason))
	return false
}

// Over reports whether the game has ended.
func (s *Session) Over() bool { return s.state == GameOver }

// Result returns the final result once the game is over.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Stack:      s.board.Rows(),
		Width:      s.board.Width(),
		Height:     s.board.Height(),
		HiddenRows: s.board.HiddenRows(),
		Ghost:      s.ctrl.Ghost(),
		Next:       s.rand.Peek(),
		Score:      s.score,
		Level:      s.level,
		Lines:      s.lines,
		Ticks:      s.ticks,
		LastClear:  append([]int(nil), s.lastClear...),
		Paused:     s.paused,
		GameOver:   s.state == GameOver,
	}
	if p, ok := s.ctrl.Piece(); ok {
		snap.Active = &PieceView{
			Kind:     p.Kind,
			Rotation: p.Rotation,
			Row:      p.Row,
			Col:      p.Col,
			Cells:    p.Cells(),
		}
	}
	return snap
}
