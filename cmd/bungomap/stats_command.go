package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m37335/bungo-project/pkg/db"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			stats, err := db.GetStats(conn)
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Authors", strconv.Itoa(stats.Authors)},
				{"Works", strconv.Itoa(stats.Works)},
				{"Places", strconv.Itoa(stats.Places)},
				{"Geocoded", strconv.Itoa(stats.Geocoded)},
				{"Geocoded rate", fmt.Sprintf("%.1f%%", stats.GeocodedRate*100)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows, 2))
			return nil
		},
	}
}
