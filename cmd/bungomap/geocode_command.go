package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m37335/bungo-project/pkg/db"
	"github.com/m37335/bungo-project/pkg/geocode"
)

// newGeocodeCommand backfills coordinates for places stored without them,
// typically after a provider outage or when a new API key becomes available.
func newGeocodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode",
		Short: "Backfill coordinates for ungeocoded places",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			resolver, err := ctx.newResolver()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			places, err := db.ListUngeocoded(conn)
			if err != nil {
				return err
			}
			if len(places) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All places already geocoded.")
				return nil
			}

			var updated int
			for i, p := range places {
				res := resolver.Resolve(cmd.Context(), p.PlaceName, geocode.DefaultCountry)
				if res.Geocoded {
					if err := db.UpdatePlaceLocation(conn, p.ID, *res.Latitude, *res.Longitude, res.Address); err != nil {
						logger.Error("failed to update place location",
							"place", p.PlaceName, "error", err)
						continue
					}
					updated++
				}
				if cfg.Geocode.Delay > 0 && !res.FromCache && i < len(places)-1 {
					time.Sleep(cfg.Geocode.Delay)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Geocoded %d of %d places.\n", updated, len(places))
			return nil
		},
	}
}
