package cmd

import (
	"blockfall/client"
	"blockfall/config"
	"blockfall/highscore"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high scores",
	Long:  "Scores lists the local high scores, or the leaderboard's with --remote.",
	Args:  cobra.NoArgs,
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().IntP("top", "n", 10, "number of entries")
	scoresCmd.Flags().Bool("remote", false, "read the leaderboard instead of the local scores")
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("top")
	remote, _ := cmd.Flags().GetBool("remote")

	var entries []highscore.Entry
	if remote {
		rc := client.NewRemoteClient(cfg.Leaderboard.Address, cfg.Leaderboard.Timeout, slog.New(slog.DiscardHandler))
		defer rc.Close()
		entries, err = rc.Top(cmd.Context(), n)
	} else {
		var store *highscore.SQLiteStore
		if store, err = openStore(cmd.Context(), cfg); err != nil {
			return err
		}
		defer store.Close()
		entries, err = store.Top(cmd.Context(), n)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no scores yet")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSCORE\tLINES\tLEVEL\tSEED\tDATE")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n", i+1, e.Name, e.Score, e.Lines, e.Level, e.Seed, e.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}
