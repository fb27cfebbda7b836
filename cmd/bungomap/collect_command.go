package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m37335/bungo-project/pkg/aozora"
	"github.com/m37335/bungo-project/pkg/extract"
	"github.com/m37335/bungo-project/pkg/ingest"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var fileFlag string
	var authorFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Extract, geocode, and store place names from one work",
		RunE: func(cmd *cobra.Command, args []string) error {
			if urlFlag == "" && fileFlag == "" {
				return fmt.Errorf("either --url or --file is required")
			}
			if urlFlag != "" && fileFlag != "" {
				return fmt.Errorf("--url and --file are mutually exclusive")
			}
			if authorFlag == "" {
				return fmt.Errorf("--author is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			var text string
			title := titleFlag
			if urlFlag != "" {
				logger.Info("fetching work", "url", urlFlag)
				work, err := aozora.NewClient().Fetch(cmd.Context(), urlFlag)
				if err != nil {
					return fmt.Errorf("fetch work: %w", err)
				}
				text = work.Text
				if title == "" {
					title = work.Title
				}
			} else {
				raw, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("read work file: %w", err)
				}
				text = aozora.CleanText(string(raw))
			}
			if title == "" {
				return fmt.Errorf("--title is required when it cannot be derived from the page")
			}

			conn, err := ctx.openDB()
			if err != nil {
				return err
			}
			resolver, err := ctx.newResolver()
			if err != nil {
				return err
			}

			extractor := extract.NewExtractor(extract.NewRecognizer())
			extractor.Logger = logger

			ing := ingest.NewIngester(conn, extractor, resolver)
			ing.GeocodeDelay = cfg.Geocode.Delay
			ing.Logger = logger

			summary, err := ing.IngestWork(cmd.Context(), ingest.WorkMeta{
				Author:    authorFlag,
				Title:     title,
				AozoraURL: urlFlag,
			}, text)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(authorFlag, title, summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Aozora Bunko URL of the work")
	cmd.Flags().StringVar(&fileFlag, "file", "", "Local text file of the work")
	cmd.Flags().StringVar(&authorFlag, "author", "", "Author name")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Work title")

	return cmd
}

func renderSummary(author, title string, s ingest.Summary) string {
	rows := [][]string{
		{"Author", author},
		{"Work", title},
		{"Inserted", strconv.Itoa(s.Inserted)},
		{"Updated", strconv.Itoa(s.Updated)},
		{"Geocoded", strconv.Itoa(s.Geocoded)},
		{"Errors", strconv.Itoa(s.Errors)},
	}
	out := renderTable([]string{"Field", "Value"}, rows, 2)

	var failed [][]string
	for _, item := range s.Items {
		if item.Reason != "" {
			failed = append(failed, []string{item.PlaceName, string(item.Status), item.Reason})
		}
	}
	if len(failed) > 0 {
		out += "\n" + renderTable([]string{"Place", "Status", "Reason"}, failed)
	}
	return out
}
