package cmd

import (
	"blockfall/config"
	"blockfall/replay"
	"blockfall/tetris"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Play a recorded game again and check its result",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().Bool("board", false, "print the final board")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	f, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	s, err := replay.Verify(f, tetris.WithLogger(logger))
	if err != nil {
		return err
	}
	snap := s.Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "player %s, seed %d, %d events\n", f.Player, f.Recording.Config.Seed, len(f.Recording.Events))
	fmt.Fprintf(out, "score %d, lines %d, level %d: verified\n", snap.Score, snap.Lines, snap.Level)
	if board, _ := cmd.Flags().GetBool("board"); board {
		printBoard(out, snap)
	}
	return nil
}

func printBoard(w io.Writer, s tetris.Snapshot) {
	for _, row := range s.Visible() {
		var b strings.Builder
		b.WriteByte('|')
		for _, c := range row {
			if c.Occupied {
				b.WriteString(string(c.Color))
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('|')
		fmt.Fprintln(w, b.String())
	}
}
