package cmd

import (
	"blockfall/client"
	"blockfall/config"
	"blockfall/highscore"
	"blockfall/replay"
	"blockfall/tetris"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// execute runs the CLI with args. Flags keep their values between runs, so
// every test passes the ones it relies on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	noConfig := filepath.Join(t.TempDir(), "missing.toml")
	rootCmd.SetArgs(append([]string{"--config", noConfig}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func recordedGame(t *testing.T) replay.File {
	t.Helper()
	cfg := tetris.DefaultConfig()
	cfg.Seed = 7
	rec := tetris.Recording{Config: cfg, Events: []tetris.Event{
		{Action: tetris.MoveLeft},
		{Action: tetris.HardDrop},
		{Elapsed: 2 * time.Second},
		{Action: tetris.RotateCW},
		{Action: tetris.HardDrop},
	}}
	s, err := tetris.Replay(rec)
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	return replay.New("ana", tetris.Result{Score: snap.Score, Lines: snap.Lines, Level: snap.Level, Seed: 7}, rec)
}

func TestReplayCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := replay.Save(path, recordedGame(t)); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "replay", "--board", path)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "player ana, seed 7, 5 events") {
		t.Errorf("missing summary in output:\n%s", out)
	}
	if !strings.Contains(out, "verified") {
		t.Errorf("wanted the replay to be verified, got:\n%s", out)
	}
	var rows int
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "|") {
			rows++
		}
	}
	if rows != tetris.DefaultConfig().VisibleRows {
		t.Errorf("wanted %d board rows, got %d", tetris.DefaultConfig().VisibleRows, rows)
	}

	t.Run("Tampered result", func(t *testing.T) {
		f := recordedGame(t)
		f.Score += 100
		path := filepath.Join(t.TempDir(), "tampered.toml")
		if err := replay.Save(path, f); err != nil {
			t.Fatal(err)
		}
		if _, err := execute(t, "replay", path); !errors.Is(err, replay.ErrMismatch) {
			t.Errorf("wanted %v, got %v", replay.ErrMismatch, err)
		}
	})

	t.Run("Missing argument", func(t *testing.T) {
		if _, err := execute(t, "replay"); err == nil {
			t.Error("wanted an error without a file")
		}
	})
}

func TestScoresCommand(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.db")
	store, err := highscore.NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []highscore.Entry{
		{Name: "low", Score: 100, Lines: 1},
		{Name: "high", Score: 900, Lines: 8},
		{Name: "mid", Score: 400, Lines: 4},
	} {
		if err := store.Add(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	store.Close()

	out, err := execute(t, "scores", "--scores", path, "--remote=false", "-n", "2")
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	high, mid := strings.Index(out, "high"), strings.Index(out, "mid")
	if high < 0 || mid < 0 || high > mid {
		t.Errorf("wanted high before mid, got:\n%s", out)
	}
	if strings.Contains(out, "low") {
		t.Errorf("wanted only the top 2 entries, got:\n%s", out)
	}

	t.Run("Empty store", func(t *testing.T) {
		out, err := execute(t, "scores", "--scores", filepath.Join(t.TempDir(), "empty.db"), "--remote=false", "-n", "5")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "no scores yet") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}

func TestSaveGame(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Player: "ana", ReplayDir: filepath.Join(t.TempDir(), "replays")}
	store := highscore.NewMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	remote := client.NewRemoteClient("", time.Second, logger)
	f := recordedGame(t)
	r := tetris.Result{Score: f.Score, Lines: f.Lines, Level: f.Level, Seed: 7}

	saveGame(ctx, logger, cfg, store, remote, r, f.Recording)

	top, err := store.Top(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Name != "ana" || top[0].Score != r.Score {
		t.Errorf("wanted one entry for ana with score %d, got %+v", r.Score, top)
	}

	files, err := os.ReadDir(cfg.ReplayDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0].Name(), "-7.toml") {
		t.Fatalf("wanted one replay for seed 7, got %v", files)
	}
	saved, err := replay.Load(filepath.Join(cfg.ReplayDir, files[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := replay.Verify(saved); err != nil {
		t.Errorf("saved replay doesn't verify: %v", err)
	}
}
