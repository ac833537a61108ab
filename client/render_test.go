package client

import (
	"blockfall/highscore"
	"blockfall/tetris"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func emptyStack(h, w int) [][]string {
	want := make([][]string, h)
	for y := range want {
		want[y] = make([]string, w)
		for x := range want[y] {
			want[y][x] = "  "
		}
	}
	return want
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		do   func(*render)
		want []string
	}{
		{
			name: "no data renders game frame",
			do:   func(r *render) { r.game(nil) },
			want: []string{"+--------------------+", "local"},
		},
		{
			name: "data renders game",
			do: func(r *render) {
				s := tetris.NewTestSession(tetris.T).Snapshot()
				r.game(&s)
			},
			want: []string{"Score: 0", "Level: 0", "Lines: 0", "Next:"},
		},
		{
			name: "paused game",
			do: func(r *render) {
				s := tetris.NewTestSession(tetris.T)
				s.Apply(tetris.Pause)
				snap := s.Snapshot()
				r.game(&snap)
			},
			want: []string{"PAUSED"},
		},
		{
			name: "default lobby message",
			do:   func(r *render) { r.lobby(defaultLobby()) },
			want: []string{"Welcome to Terminal Tetris", "(p)lay"},
		},
		{
			name: "game over lobby message",
			do:   func(r *render) { r.lobby(gameOver(tetris.Result{Score: 120, Lines: 3})) },
			want: []string{"Game Over :)", "score 120   lines 3"},
		},
		{
			name: "error lobby message",
			do:   func(r *render) { r.lobby(errorMessage(errors.New("no luck"))) },
			want: []string{"something went wrong :(", "no luck"},
		},
		{
			name: "scores",
			do:   func(r *render) { r.scores([]highscore.Entry{{Name: "ana", Score: 1200, Lines: 12}}) },
			want: []string{"High Scores", " 1. ana", "1200"},
		},
		{
			name: "no scores",
			do:   func(r *render) { r.scores(nil) },
			want: []string{"no scores yet"},
		},
	}
	tmpl, err := loadTemplate()
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := &strings.Builder{}
			r := &render{
				writer:       w,
				logger:       slog.New(slog.DiscardHandler),
				template:     tmpl,
				templateData: &templateData{Name: "local", Width: 10, Height: 20},
			}
			tt.do(r)
			for _, want := range tt.want {
				if !strings.Contains(w.String(), want) {
					t.Errorf("wanted output to contain %q, got %q", want, w.String())
				}
			}
		})
	}
}

func TestLocalStack(t *testing.T) {
	s := tetris.NewTestSession(tetris.J)
	s.Apply(tetris.SoftDrop)
	s.Apply(tetris.SoftDrop)
	snap := s.Snapshot()
	td := &templateData{Snap: &snap, Width: 10, Height: 20}

	want := emptyStack(20, 10)
	blueCell := "\x1b[7m\x1b[34m[]\x1b[0m"
	want[0][3] = blueCell
	want[1][3] = blueCell
	want[1][4] = blueCell
	want[1][5] = blueCell
	want[18][3] = "[]"
	want[19][3] = "[]"
	want[19][4] = "[]"
	want[19][5] = "[]"
	got := stack(td)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}

	t.Run("no ghost", func(t *testing.T) {
		td := &templateData{Snap: &snap, Width: 10, Height: 20, NoGhost: true}
		if got := stack(td); got[19][3] != "  " {
			t.Errorf("wanted no ghost, got %q", got[19][3])
		}
	})

	t.Run("stack with nil snapshot returns empty spaces", func(t *testing.T) {
		got := stack(&templateData{Width: 10, Height: 20})
		if !reflect.DeepEqual(got, emptyStack(20, 10)) {
			t.Errorf("want %v, got %v", emptyStack(20, 10), got)
		}
	})
}

func TestNextPiece(t *testing.T) {
	blue := "\x1b[7m\x1b[34m[]\x1b[0m"
	yellow := "\x1b[7m\x1b[33m[]\x1b[0m"
	cyan := "\x1b[7m\x1b[36m[]\x1b[0m"
	tests := []struct {
		shape tetris.Shape
		want  []string
	}{
		{tetris.J, []string{blue + "      ", blue + blue + blue + "  "}},
		{tetris.O, []string{"  " + yellow + yellow + "  ", "  " + yellow + yellow + "  "}},
		{tetris.I, []string{cyan + cyan + cyan + cyan, "        "}},
	}
	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			td := &templateData{Snap: &tetris.Snapshot{Next: tt.shape}}
			got := nextPiece(td)
			if !reflect.DeepEqual(tt.want, got) {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
	t.Run("nextPiece with nil snapshot returns empty spaces", func(t *testing.T) {
		want := []string{"        ", "        "}
		got := nextPiece(nil)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("want %v, got %v", want, got)
		}
	})
}
