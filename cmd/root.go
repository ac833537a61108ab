// Package cmd provides the CLI commands of the game.
package cmd

import (
	"blockfall/config"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Terminal Tetris",
	Long: `Terminal Tetris plays a guideline-style Tetris in the terminal, keeps local high
scores and replays, and runs or talks to a shared leaderboard server.`,
	SilenceUsage: true,
}

var cfgFile string

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .tetris.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().String("scores", "", "high score database (default <user config dir>/blockfall/scores.db)")
	rootCmd.PersistentFlags().String("leaderboard", "", "leaderboard address, e.g. localhost:9000")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"verbose":     "verbose",
		"log-file":    "log_file",
		"scores":      "scores_path",
		"leaderboard": "leaderboard.address",
	})
}

// bindFlags binds each named flag of fs to its config key.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = viper.BindPFlag(key, fs.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".tetris")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("TETRIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// newLogger writes to the configured log file, or to w when there is none.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, func(), error) {
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()})), closer, nil
}
