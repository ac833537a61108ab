package tetris

import "time"

// ActivePiece is the falling tetromino. Row and Col locate the top-left corner
// of its bounding box.
type ActivePiece struct {
	Kind     Shape
	Rotation int
	Row, Col int
}

// Cells returns the absolute cells the piece covers.
func (p ActivePiece) Cells() []Point {
	cells := CellOffsets(p.Kind, p.Rotation)
	origin := Point{Row: p.Row, Col: p.Col}
	for i := range cells {
		cells[i] = cells[i].add(origin)
	}
	return cells
}

func (p ActivePiece) shifted(d Point) ActivePiece {
	p.Row += d.Row
	p.Col += d.Col
	return p
}

// Outcome of a controller operation.
type Outcome int

const (
	Rejected Outcome = iota // nothing changed
	Moved                   // the piece moved or rotated
	Locked                  // the piece was committed to the board
)

// Controller applies player commands and gravity to the active piece.
//
// Lock delay follows the "move reset" rule: a failed gravity step starts the
// countdown, each successful move or rotation while it runs restarts it, up to
// maxResets times. Reaching a row lower than any the piece reached before
// gives back the full delay and every reset.
type Controller struct {
	board     *Board
	piece     *ActivePiece
	lockDelay time.Duration
	maxResets int

	locking   bool
	lockTimer time.Duration
	resets    int
	lowest    int
}

func NewController(b *Board, lockDelay time.Duration, maxResets int) *Controller {
	return &Controller{board: b, lockDelay: lockDelay, maxResets: maxResets}
}

// Piece returns the active piece, if any.
func (c *Controller) Piece() (ActivePiece, bool) {
	if c.piece == nil {
		return ActivePiece{}, false
	}
	return *c.piece, true
}

// Locking reports whether the lock delay countdown is running.
func (c *Controller) Locking() bool { return c.locking }

// Spawn places a new piece of kind at the top center of the board. It returns
// false, leaving no active piece, if the spawn cells are taken.
func (c *Controller) Spawn(kind Shape) bool {
	shape := ShapeOf(kind)
	p := ActivePiece{
		Kind: kind,
		Row:  -shape.top(),
		Col:  (c.board.Width() - shape.Box) / 2,
	}
	cells := p.Cells()
	for _, cell := range cells {
		if !c.board.inBounds(cell) {
			invariant("spawn of %s at %v falls outside the board", kind, cell)
		}
	}
	c.piece = nil
	c.locking = false
	c.lockTimer = 0
	c.resets = 0
	if c.board.IsSpawnBlocked(cells) {
		return false
	}
	c.piece = &p
	c.lowest = p.Row
	return true
}

func (c *Controller) MoveLeft() Outcome  { return c.shift(Point{Col: -1}) }
func (c *Controller) MoveRight() Outcome { return c.shift(Point{Col: 1}) }

func (c *Controller) shift(d Point) Outcome {
	if c.piece == nil {
		return Rejected
	}
	next := c.piece.shifted(d)
	if !c.board.CanPlace(next.Cells()) {
		return Rejected
	}
	*c.piece = next
	c.moved()
	return Moved
}

// Rotate turns the piece, trying the wall kicks of the transition in order.
// If none fits the piece is left untouched.
func (c *Controller) Rotate(d Direction) Outcome {
	if c.piece == nil {
		return Rejected
	}
	shape := ShapeOf(c.piece.Kind)
	n := shape.Rotations()
	if n == 1 {
		return Rejected
	}
	step := 1
	if d == CounterClockwise {
		step = n - 1
	}
	turned := *c.piece
	turned.Rotation = (c.piece.Rotation + step) % n
	for _, k := range shape.kicksFor(c.piece.Rotation, d) {
		next := turned.shifted(k)
		if c.board.CanPlace(next.Cells()) {
			*c.piece = next
			c.moved()
			if next.Row > c.lowest {
				c.descended(next.Row)
			}
			return Moved
		}
	}
	return Rejected
}

// moved restarts the countdown of a grounded piece while resets are left,
// and stops it if the piece is no longer resting on anything.
func (c *Controller) moved() {
	if !c.locking {
		return
	}
	if c.resets < c.maxResets {
		c.resets++
		c.lockTimer = 0
	}
	if c.canFall() {
		c.locking = false
	}
}

func (c *Controller) descended(row int) {
	c.lowest = row
	c.resets = 0
	c.lockTimer = 0
}

func (c *Controller) canFall() bool {
	return c.board.CanPlace(c.piece.shifted(Point{Row: 1}).Cells())
}

func (c *Controller) fall() bool {
	if !c.canFall() {
		return false
	}
	c.piece.Row++
	c.locking = false
	if c.piece.Row > c.lowest {
		c.descended(c.piece.Row)
	}
	return true
}

// SoftDrop moves the piece one row down, or locks it if it can't.
func (c *Controller) SoftDrop() Outcome {
	if c.piece == nil {
		return Rejected
	}
	if c.fall() {
		return Moved
	}
	return c.lock()
}

// HardDrop moves the piece down until it rests and locks it.
func (c *Controller) HardDrop() Outcome {
	if c.piece == nil {
		return Rejected
	}
	for c.fall() {
	}
	return c.lock()
}

// TickGravity is one gravity step. When the piece can't fall it starts the
// lock delay instead, or locks straight away if there is no delay.
func (c *Controller) TickGravity() Outcome {
	if c.piece == nil {
		return Rejected
	}
	if c.fall() {
		return Moved
	}
	if c.lockDelay <= 0 {
		return c.lock()
	}
	c.locking = true
	return Rejected
}

// AdvanceLock runs the lock delay countdown and locks the piece once it
// expires.
func (c *Controller) AdvanceLock(elapsed time.Duration) Outcome {
	if c.piece == nil || !c.locking {
		return Rejected
	}
	c.lockTimer += elapsed
	if c.lockTimer < c.lockDelay {
		return Rejected
	}
	return c.lock()
}

// Ghost returns the cells the piece would occupy after a hard drop.
func (c *Controller) Ghost() []Point {
	if c.piece == nil {
		return nil
	}
	g := *c.piece
	for c.board.CanPlace(g.shifted(Point{Row: 1}).Cells()) {
		g.Row++
	}
	return g.Cells()
}

func (c *Controller) lock() Outcome {
	c.board.Commit(c.piece.Cells(), c.piece.Kind)
	c.piece = nil
	c.locking = false
	c.lockTimer = 0
	return Locked
}
