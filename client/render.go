package client

import (
	"blockfall/highscore"
	"blockfall/tetris"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/template"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos  = "\033[H"  // Reset cursor position to 0,0
	clearDown = "\033[0J" // Clear from cursor to the end of the screen

	boxWidth = 38
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

func block(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

type templateData struct {
	Snap    *tetris.Snapshot
	Width   int
	Height  int
	Name    string
	NoGhost bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData
}

func newRender(l *slog.Logger, ng bool, name string, cfg tetris.Config) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   os.Stdout,
		logger:   l,
		template: tmp,
		templateData: &templateData{
			Width:   cfg.Width,
			Height:  cfg.VisibleRows,
			Name:    name,
			NoGhost: ng,
		},
	}, nil
}

// game draws the playfield. A nil snapshot draws an empty one.
func (r *render) game(s *tetris.Snapshot) {
	r.templateData.Snap = s
	if s != nil {
		r.templateData.Width = s.Width
		r.templateData.Height = s.Height - s.HiddenRows
	}
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in game()", slog.String("error", err.Error()))
	}
}

func (r *render) reset() {
	fmt.Fprint(r.writer, resetPos, clearDown)
}

// lobby draws a message box on top of the playfield.
func (r *render) lobby(lines []string) {
	top := 8
	edge := "+" + strings.Repeat("-", boxWidth) + "+"
	fmt.Fprintf(r.writer, "\033[%d;3H%s", top, edge)
	for i, l := range lines {
		fmt.Fprintf(r.writer, "\033[%d;3H|%s|", top+1+i, center(l, boxWidth))
	}
	fmt.Fprintf(r.writer, "\033[%d;3H%s", top+1+len(lines), edge)
}

func (r *render) scores(entries []highscore.Entry) {
	lines := []string{"High Scores", ""}
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%2d. %-12.12s %8d %4d", i+1, e.Name, e.Score, e.Lines))
	}
	if len(entries) == 0 {
		lines = append(lines, "no scores yet")
	}
	lines = append(lines, "", "(b)ack")
	r.lobby(lines)
}

func defaultLobby() []string {
	return []string{"Welcome to Terminal Tetris", "", "(p)lay   (s)cores   (q)uit"}
}

func gameOver(r tetris.Result) []string {
	return []string{
		"Game Over :)",
		fmt.Sprintf("score %d   lines %d   level %d", r.Score, r.Lines, r.Level),
		"(p)lay   (s)cores   (q)uit",
	}
}

func errorMessage(err error) []string {
	return []string{"something went wrong :(", err.Error(), "(p)lay   (s)cores   (q)uit"}
}

func center(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(s)-left)
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"stack":  stack,
		"side":   side,
		"border": border,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func border(t *templateData) string {
	return "+" + strings.Repeat("--", t.Width) + "+"
}

// stack renders the visible rows of the snapshot: the locked cells, then the
// ghost, then the active piece on top.
func stack(t *templateData) [][]string {
	rendered := make([][]string, t.Height)
	for y := range rendered {
		rendered[y] = make([]string, t.Width)
		for x := range rendered[y] {
			rendered[y][x] = "  "
		}
	}
	if t.Snap == nil {
		return rendered
	}
	hidden := t.Snap.HiddenRows
	put := func(p tetris.Point, v string) {
		if y := p.Row - hidden; y >= 0 && y < t.Height && p.Col >= 0 && p.Col < t.Width {
			rendered[y][p.Col] = v
		}
	}
	for y, row := range t.Snap.Stack {
		for x, c := range row {
			if c.Occupied {
				put(tetris.Point{Row: y, Col: x}, block(c.Color))
			}
		}
	}
	if t.Snap.Active != nil {
		if !t.NoGhost {
			for _, p := range t.Snap.Ghost {
				put(p, "[]")
			}
		}
		for _, p := range t.Snap.Active.Cells {
			put(p, block(t.Snap.Active.Kind))
		}
	}
	return rendered
}

// side is the text printed right of row i of the playfield.
func side(t *templateData, i int) string {
	if t.Snap == nil {
		if i == 1 {
			return "  " + t.Name
		}
		return ""
	}
	switch i {
	case 1:
		return "  " + t.Name
	case 3:
		return fmt.Sprintf("  Score: %d", t.Snap.Score)
	case 4:
		return fmt.Sprintf("  Level: %d", t.Snap.Level)
	case 5:
		return fmt.Sprintf("  Lines: %d", t.Snap.Lines)
	case 7:
		return "  Next:"
	case 8, 9:
		return "  " + nextPiece(t)[i-8]
	case 11:
		if t.Snap.Paused {
			return "  PAUSED (p to resume)"
		}
		return "                      "
	}
	return ""
}

// nextPiece renders the spawn rotation of the next shape in two rows.
func nextPiece(t *templateData) []string {
	rendered := []string{"        ", "        "}
	if t == nil || t.Snap == nil || t.Snap.Next == "" {
		return rendered
	}
	rows := [2][4]string{}
	for y := range rows {
		for x := range rows[y] {
			rows[y][x] = "  "
		}
	}
	offsets := tetris.CellOffsets(t.Snap.Next, 0)
	top := offsets[0].Row
	for _, p := range offsets {
		top = min(top, p.Row)
	}
	for _, p := range offsets {
		if y := p.Row - top; y < 2 && p.Col < 4 {
			rows[y][p.Col] = block(t.Snap.Next)
		}
	}
	for y := range rows {
		rendered[y] = strings.Join(rows[y][:], "")
	}
	return rendered
}
