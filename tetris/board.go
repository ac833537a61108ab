package tetris

// Cell is one position of the stack. Color is the shape that locked it.
type Cell struct {
	Occupied bool
	Color    Shape
}

// Board is the stack: Width columns and HiddenRows+VisibleRows rows.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	. . . . . . . . . .	hidden
//	1	. . . . . . . . . .	hidden
//	2	. . . . . . . . . .
//	.	        ...
//	21	. . . . . . . . . .
//
// Pieces spawn in the hidden rows. Writing outside the grid is an invariant
// violation.
type Board struct {
	width, height, hidden int
	cells                 [][]Cell
}

func NewBoard(width, visibleRows, hiddenRows int) *Board {
	if width <= 0 || visibleRows <= 0 || hiddenRows < 0 {
		invariant("board size %dx%d+%d", width, visibleRows, hiddenRows)
	}
	h := visibleRows + hiddenRows
	cells := make([][]Cell, h)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return &Board{width: width, height: h, hidden: hiddenRows, cells: cells}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows, hidden ones included.
func (b *Board) Height() int { return b.height }

// HiddenRows returns the number of rows above the visible playfield.
func (b *Board) HiddenRows() int { return b.hidden }

func (b *Board) inBounds(p Point) bool {
	return p.Row >= 0 && p.Row < b.height && p.Col >= 0 && p.Col < b.width
}

// At returns the cell at p.
func (b *Board) At(p Point) Cell {
	if !b.inBounds(p) {
		invariant("cell %v out of bounds", p)
	}
	return b.cells[p.Row][p.Col]
}

// CanPlace reports whether every cell is inside the grid and empty.
func (b *Board) CanPlace(cells []Point) bool {
	for _, c := range cells {
		if !b.inBounds(c) || b.cells[c.Row][c.Col].Occupied {
			return false
		}
	}
	return true
}

// Commit fills cells with color. The caller must have checked CanPlace.
func (b *Board) Commit(cells []Point, color Shape) {
	if !b.CanPlace(cells) {
		invariant("commit of %s over %v without a valid placement", color, cells)
	}
	for _, c := range cells {
		b.cells[c.Row][c.Col] = Cell{Occupied: true, Color: color}
	}
}

// IsSpawnBlocked reports whether a piece spawning over cells collides.
func (b *Board) IsSpawnBlocked(cells []Point) bool { return !b.CanPlace(cells) }

func (b *Board) checkRow(row int) {
	if row < 0 || row >= b.height {
		invariant("row %d out of bounds", row)
	}
}

func (b *Board) IsRowFull(row int) bool {
	b.checkRow(row)
	for _, c := range b.cells[row] {
		if !c.Occupied {
			return false
		}
	}
	return true
}

func (b *Board) ClearRow(row int) {
	b.checkRow(row)
	clear(b.cells[row])
}

// CollapseAbove moves every row above row down by one, overwriting row, and
// puts an empty row on top.
func (b *Board) CollapseAbove(row int) {
	b.checkRow(row)
	// reuse the storage of the row that disappears for the new top row.
	gone := b.cells[row]
	copy(b.cells[1:row+1], b.cells[:row])
	clear(gone)
	b.cells[0] = gone
}

// settle drops, column by column, everything at or above row into the empty
// cells right beneath it. It reports whether any cell moved.
func (b *Board) settle(row int) bool {
	b.checkRow(row)
	moved := false
	for col := range b.width {
		gap := 0
		for r := row + 1; r < b.height && !b.cells[r][col].Occupied; r++ {
			gap++
		}
		if gap == 0 {
			continue
		}
		// bottom up, so nothing lands on a cell that hasn't moved yet.
		for r := row; r >= 0; r-- {
			if b.cells[r][col].Occupied {
				b.cells[r+gap][col] = b.cells[r][col]
				b.cells[r][col] = Cell{}
				moved = true
			}
		}
	}
	return moved
}

// Occupied returns the number of occupied cells.
func (b *Board) Occupied() int {
	n := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c.Occupied {
				n++
			}
		}
	}
	return n
}

// Rows returns a copy of the grid, top row first.
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, len(b.cells))
	for i := range b.cells {
		out[i] = make([]Cell, len(b.cells[i]))
		copy(out[i], b.cells[i])
	}
	return out
}
