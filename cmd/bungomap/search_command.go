package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m37335/bungo-project/pkg/db"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored authors, works, and places",
	}
	cmd.AddCommand(newSearchAuthorCommand(ctx))
	cmd.AddCommand(newSearchWorkCommand(ctx))
	cmd.AddCommand(newSearchPlaceCommand(ctx))
	return cmd
}

func newSearchAuthorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "author <query>",
		Short: "Search authors by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			authors, err := db.SearchAuthors(conn, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(authors))
			for _, a := range authors {
				rows = append(rows, []string{
					strconv.FormatInt(a.ID, 10), a.Name, yearString(a.BirthYear), yearString(a.DeathYear),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Born", "Died"}, rows, 1))
			return nil
		},
	}
}

func newSearchWorkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "work <query>",
		Short: "Search works by title substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			works, err := db.SearchWorks(conn, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(works))
			for _, w := range works {
				rows = append(rows, []string{
					strconv.FormatInt(w.ID, 10), w.Title, w.AuthorName, w.AozoraURL,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Author", "URL"}, rows, 1))
			return nil
		},
	}
}

func newSearchPlaceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "place <query>",
		Short: "Search place mentions by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			places, err := db.SearchPlaces(conn, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(places))
			for _, p := range places {
				rows = append(rows, []string{
					p.PlaceName,
					p.AuthorName,
					p.WorkTitle,
					coordString(p.Latitude),
					coordString(p.Longitude),
					strconv.FormatFloat(p.Confidence, 'f', 2, 64),
					p.ExtractionMethod,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Place", "Author", "Work", "Lat", "Lng", "Conf", "Method"}, rows, 4, 5, 6))
			return nil
		},
	}
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func coordString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
