package tetris

// Shape is one of the seven tetrominoes. A locked cell keeps the Shape that
// put it there, which is what it will be rendered with.
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	Z Shape = "Z"
	T Shape = "T"
)

// Point is a position on the stack. Rows grow downward starting from 0 at the
// top of the hidden rows, columns grow to the right starting from the left wall.
type Point struct {
	Row, Col int
}

func (p Point) add(q Point) Point { return Point{Row: p.Row + q.Row, Col: p.Col + q.Col} }

// Direction of a rotation.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// PieceShape is the immutable definition of a tetromino: its rotation states
// as cell offsets from the top-left corner of its bounding box.
type PieceShape struct {
	Kind   Shape
	Box    int
	states [][]Point
	kicks  *kickTable
}

// Rotations returns the number of rotation states.
func (p PieceShape) Rotations() int { return len(p.states) }

// Cells returns a copy of the offsets of the given rotation state.
func (p PieceShape) Cells(rotation int) []Point {
	if rotation < 0 || rotation >= len(p.states) {
		invariant("rotation %d out of range for %s", rotation, p.Kind)
	}
	out := make([]Point, len(p.states[rotation]))
	copy(out, p.states[rotation])
	return out
}

// top is the smallest row offset of the spawn state.
func (p PieceShape) top() int {
	m := p.Box
	for _, c := range p.states[0] {
		m = min(m, c.Row)
	}
	return m
}

// kick is a wall kick test written (x, y) with y pointing up, the way the SRS
// tables are usually published.
type kick struct{ x, y int }

func (k kick) offset() Point { return Point{Row: -k.y, Col: k.x} }

// kickTable is indexed by the rotation state we leave and the direction.
type kickTable [4][2][]kick

// https://tetris.wiki/Super_Rotation_System#Wall_Kicks
var jlstzKicks = kickTable{
	{ // 0>R, 0>L
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	{ // R>2, R>0
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	},
	{ // 2>L, 2>R
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	},
	{ // L>0, L>2
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	},
}

var iKicks = kickTable{
	{ // 0>R, 0>L
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	},
	{ // R>2, R>0
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	},
	{ // 2>L, 2>R
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	},
	{ // L>0, L>2
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	},
}

// kicksFor returns the offsets to try, in order, when leaving state from in
// direction d. Shapes with a single state never kick.
func (p PieceShape) kicksFor(from int, d Direction) []Point {
	if p.kicks == nil {
		return []Point{{}}
	}
	tests := p.kicks[from][d]
	out := make([]Point, len(tests))
	for i, k := range tests {
		out[i] = k.offset()
	}
	return out
}

// The rotation states below follow SRS. Each diagram shows the spawn state in
// its bounding box; the following states are the clockwise rotations.
var catalog = map[Shape]PieceShape{
	/*
		.	0 1 2 3
		0	. . . .
		1	O O O O
		2	. . . .
		3	. . . .
	*/
	I: {
		Kind: I,
		Box:  4,
		states: [][]Point{
			{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
			{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
			{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
			{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		},
		kicks: &iKicks,
	},
	/*
		.	0 1 2
		0	O . .
		1	O O O
		2	. . .
	*/
	J: {
		Kind: J,
		Box:  3,
		states: [][]Point{
			{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {0, 2}, {1, 1}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
			{{0, 1}, {1, 1}, {2, 0}, {2, 1}},
		},
		kicks: &jlstzKicks,
	},
	/*
		.	0 1 2
		0	. . O
		1	O O O
		2	. . .
	*/
	L: {
		Kind: L,
		Box:  3,
		states: [][]Point{
			{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 0}},
			{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		},
		kicks: &jlstzKicks,
	},
	/*
		.	0 1 2 3
		0	. O O .
		1	. O O .
	*/
	O: {
		Kind: O,
		Box:  4,
		states: [][]Point{
			{{0, 1}, {0, 2}, {1, 1}, {1, 2}},
		},
	},
	/*
		.	0 1 2
		0	. O O
		1	O O .
		2	. . .
	*/
	S: {
		Kind: S,
		Box:  3,
		states: [][]Point{
			{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {1, 2}, {2, 0}, {2, 1}},
			{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		},
		kicks: &jlstzKicks,
	},
	/*
		.	0 1 2
		0	O O .
		1	. O O
		2	. . .
	*/
	Z: {
		Kind: Z,
		Box:  3,
		states: [][]Point{
			{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
			{{0, 2}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		},
		kicks: &jlstzKicks,
	},
	/*
		.	0 1 2
		0	. O .
		1	O O O
		2	. . .
	*/
	T: {
		Kind: T,
		Box:  3,
		states: [][]Point{
			{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 1}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		},
		kicks: &jlstzKicks,
	},
}

// AllShapes returns every shape in catalog order.
func AllShapes() []Shape { return []Shape{I, J, L, O, S, Z, T} }

// ShapeOf returns the definition of s.
func ShapeOf(s Shape) PieceShape {
	p, ok := catalog[s]
	if !ok {
		invariant("unknown shape %q", s)
	}
	return p
}

// RotationCount returns the number of rotation states of s.
func RotationCount(s Shape) int { return ShapeOf(s).Rotations() }

// CellOffsets returns the offsets of s in the given rotation state.
func CellOffsets(s Shape, rotation int) []Point { return ShapeOf(s).Cells(rotation) }
