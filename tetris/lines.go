package tetris

// ClearResult lists the rows removed by one pass, top to bottom, using their
// indices before anything moved.
type ClearResult struct {
	Rows []int
}

func (r ClearResult) Count() int { return len(r.Rows) }

// Evaluate removes every full row and compacts the board.
func Evaluate(b *Board) ClearResult {
	var rows []int
	for row := range b.Height() {
		if b.IsRowFull(row) {
			rows = append(rows, row)
		}
	}
	// top to bottom: collapsing a row never moves the full rows below it, so the
	// original indices stay valid.
	for _, row := range rows {
		b.ClearRow(row)
		b.CollapseAbove(row)
	}
	return ClearResult{Rows: rows}
}

// Cascade clears full rows like Evaluate, then lets what's left above the
// lowest cleared row fall into the holes beneath it. When that completes new
// rows they are cleared too, until nothing changes. Every pass that removed
// rows is returned in order.
func Cascade(b *Board) []ClearResult {
	var passes []ClearResult
	for {
		r := Evaluate(b)
		if r.Count() == 0 {
			return passes
		}
		passes = append(passes, r)
		if !b.settle(r.Rows[len(r.Rows)-1]) {
			return passes
		}
	}
}
