package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/state"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently opened files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stateMgr, err := state.Open(zerolog.Nop())
			if err != nil {
				return fmt.Errorf("%s: %w", errmsg.OpStateOpen, err)
			}
			defer stateMgr.Close()

			plays, err := stateMgr.RecentPlays(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd, plays)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func printHistory(cmd *cobra.Command, plays []state.Play) {
	w := cmd.OutOrStdout()
	if len(plays) == 0 {
		fmt.Fprintln(w, "Nothing played yet.")
		return
	}
	for _, p := range plays {
		fmt.Fprintf(w, "%-16s %s\n", humanize.Time(p.OpenedAt), p.URL)
	}
}
