package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m37335/bungo-project/pkg/db"
	"github.com/m37335/bungo-project/pkg/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:       "export {csv|geojson}",
		Short:     "Export stored places to CSV or GeoJSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "geojson"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "csv" && format != "geojson" {
				return fmt.Errorf("unknown export format %q (expected csv or geojson)", format)
			}

			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			places, err := db.AllPlaces(conn)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outFlag != "" {
				f, err := os.Create(outFlag)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "csv":
				err = export.WriteCSV(out, places)
			case "geojson":
				err = export.WriteGeoJSON(out, places)
			}
			if err != nil {
				return err
			}
			if outFlag != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d places to %s.\n", len(places), outFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (default stdout)")

	return cmd
}
