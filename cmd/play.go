package cmd

import (
	"blockfall/client"
	"blockfall/config"
	"blockfall/highscore"
	"blockfall/replay"
	"blockfall/tetris"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play opens the lobby: (p)lay, (s)cores, (q)uit.

In game: arrows or a/s/d move, up or e rotates clockwise, q rotates
counter-clockwise, space drops and p pauses. Ctrl+C quits.

Changes to the config file apply to the next game started from the lobby.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("name", "", "player name")
	playCmd.Flags().Bool("no-ghost", false, "hide the ghost piece")
	playCmd.Flags().Int64("seed", 0, "piece sequence seed (0 picks a new one every game)")
	bindFlags(playCmd.Flags(), map[string]string{
		"name":     "player",
		"no-ghost": "no_ghost",
		"seed":     "game.seed",
	})

	rootCmd.AddCommand(playCmd)
}

// liveConfig is the config the next game starts with.
type liveConfig struct {
	cfg config.Config
	mu  sync.Mutex
}

func (l *liveConfig) get() config.Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

func (l *liveConfig) set(c config.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = c
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// the terminal is raw while playing: logs only go to a file.
	logger, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	live := &liveConfig{cfg: cfg}
	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			c, err := config.Load()
			if err != nil {
				logger.Error("unable to reload config", slog.String("error", err.Error()))
				return
			}
			live.set(c)
			logger.Info("config changed", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		})
		viper.WatchConfig()
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	remote := client.NewRemoteClient(cfg.Leaderboard.Address, cfg.Leaderboard.Timeout, logger)
	defer remote.Close()

	opts := &client.Options{
		NoGhost: cfg.NoGhost,
		Name:    cfg.Player,
		Config: func() (tetris.Config, error) {
			return live.get().Tetris(time.Now())
		},
		Scores: func(ctx context.Context, n int) ([]highscore.Entry, error) {
			if remote.Addr != "" {
				return remote.Top(ctx, n)
			}
			return store.Top(ctx, n)
		},
		OnGameOver: func(r tetris.Result, rec tetris.Recording) {
			saveGame(cmd.Context(), logger, live.get(), store, remote, r, rec)
		},
	}
	c, err := client.New(logger, opts)
	if err != nil {
		return err
	}
	defer c.Close()
	c.Start()
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (*highscore.SQLiteStore, error) {
	path, err := cfg.ScoresFile()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create scores dir: %w", err)
	}
	return highscore.NewSQLiteStore(ctx, path)
}

// saveGame keeps a finished game in the local store, the leaderboard and the
// replay dir. Failures are logged, the player is back in the lobby anyway.
func saveGame(ctx context.Context, l *slog.Logger, cfg config.Config, store highscore.Store, remote *client.RemoteClient, r tetris.Result, rec tetris.Recording) {
	e := highscore.FromResult(cfg.Player, r)
	if err := store.Add(ctx, e); err != nil {
		l.Error("unable to save score", slog.String("error", err.Error()))
	}
	if id, err := remote.Submit(ctx, e); err == nil {
		l.Info("score submitted", slog.String("id", id))
	} else if !errors.Is(err, client.ErrNoLeaderboard) {
		l.Error("unable to submit score", slog.String("error", err.Error()))
	}

	dir, err := cfg.Replays()
	if err != nil {
		l.Error("unable to locate replays", slog.String("error", err.Error()))
		return
	}
	path := filepath.Join(dir, replay.Name(r.Seed, e.CreatedAt))
	if err := replay.Save(path, replay.New(cfg.Player, r, rec)); err != nil {
		l.Error("unable to save replay", slog.String("error", err.Error()))
		return
	}
	l.Debug("replay saved", slog.String("path", path))
}
