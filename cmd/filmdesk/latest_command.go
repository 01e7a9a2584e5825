package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmdesk/internal/catalog"
	"filmdesk/internal/messages"
)

func newLatestCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "List the latest works with their ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind = strings.ToLower(strings.TrimSpace(kind))
			switch kind {
			case catalog.KindFilm, catalog.KindSeries, "all":
			default:
				return fmt.Errorf("--type must be film, series, or all (got %q)", kind)
			}
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				if !cmd.Flags().Changed("limit") {
					limit = ws.cfg.Browse.LatestLimit
				}
				works, err := fetchLatest(cmd, ws, kind, limit)
				if err != nil {
					return err
				}
				ids := make([]string, 0, len(works))
				for _, work := range works {
					if id := work.Identifier(); id != "" {
						ids = append(ids, id)
					}
				}
				ratings, err := ws.client.AverageRatings(cmd.Context(), ids)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, latestJSON(works, ratings))
				}
				out := cmd.OutOrStdout()
				if title := latestTitle(ws.text, kind); title != "" {
					for _, line := range renderSectionHeader(title, shouldColorize(out)) {
						fmt.Fprintln(out, line)
					}
				}
				if len(works) == 0 {
					fmt.Fprintln(out, "No works found")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Type", "Year", "Rating"},
					latestRows(works, ratings, ws.text),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "all", "Work type: film, series, or all")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of works to show (default browse.latest_limit)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func fetchLatest(cmd *cobra.Command, ws *workspace, kind string, limit int) ([]catalog.Work, error) {
	if kind == "all" {
		return ws.client.LatestMixed(cmd.Context(), limit)
	}
	works, err := ws.client.Latest(cmd.Context(), kind)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(works) > limit {
		works = works[:limit]
	}
	return works, nil
}

func latestTitle(text *messages.Catalog, kind string) string {
	switch kind {
	case catalog.KindFilm:
		return text.Text(messages.LatestFilms)
	case catalog.KindSeries:
		return text.Text(messages.LatestSeries)
	default:
		return ""
	}
}

func kindLabel(text *messages.Catalog, kind string) string {
	if kind == catalog.KindSeries {
		return text.Text(messages.KindSeries)
	}
	return text.Text(messages.KindFilm)
}

func ratingText(text *messages.Catalog, rating catalog.Rating, ok bool) string {
	if !ok || rating.Count == 0 {
		return text.Text(messages.NoRatings)
	}
	return rating.Display()
}

func latestRows(works []catalog.Work, ratings map[string]catalog.Rating, text *messages.Catalog) [][]string {
	rows := make([][]string, 0, len(works))
	for i := range works {
		work := &works[i]
		rating, ok := ratings[work.Identifier()]
		rows = append(rows, []string{
			work.Identifier(),
			work.Title(),
			kindLabel(text, work.Type),
			string(work.Year),
			ratingText(text, rating, ok),
		})
	}
	return rows
}

func latestJSON(works []catalog.Work, ratings map[string]catalog.Rating) []latestWorkJSON {
	out := make([]latestWorkJSON, 0, len(works))
	for i := range works {
		work := &works[i]
		item := latestWorkJSON{
			ID:    work.Identifier(),
			Title: work.Title(),
			Type:  work.Type,
			Year:  string(work.Year),
		}
		if rating, ok := ratings[item.ID]; ok && rating.Count > 0 {
			item.Rating = &rating
		}
		out = append(out, item)
	}
	return out
}
