package command

import (
	"fmt"
	"io"
	"strconv"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/report"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [slug]",
	Short: "Print the live report of a tasting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weighted, _ := cmd.Flags().GetBool("weighted")

		httpClient, err := newClient()
		if err != nil {
			return err
		}
		view, err := httpClient.Report(args[0], weighted)
		if err != nil {
			return fmt.Errorf("failed to fetch report: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s, %s)\n", view.Title, view.Status, view.Strategy)
		if err := writeReportTable(out, view); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d ratings", view.RatingCount)
		if view.DroppedRatings != nil && *view.DroppedRatings > 0 {
			fmt.Fprint(out, color.YellowString(", %d dropped", *view.DroppedRatings))
		}
		fmt.Fprintln(out)
		return nil
	},
}

// writeReportTable prints one line per ranked wine followed by the unrated
// ones, with per-criterion averages.
func writeReportTable(w io.Writer, view *report.View) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"Rank", "#", "Wine"}
	for _, c := range view.Criteria {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "Overall", "Ratings")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := make([]report.RowView, 0, len(view.Rows))
	rows = append(rows, view.Ranking...)
	for _, row := range view.Rows {
		if row.Rank == nil {
			rows = append(rows, row)
		}
	}

	var data [][]string
	for _, row := range rows {
		line := []string{rankLabel(row.Rank), strconv.Itoa(row.BlindNumber), wineLabel(row)}
		for _, c := range view.Criteria {
			line = append(line, formatAvg(row.PerCriteriaAvg[c.ID]))
		}
		line = append(line, formatAvg(row.OverallAvg), strconv.Itoa(row.NRatings))
		data = append(data, line)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func rankLabel(rank *int) string {
	if rank == nil {
		return "-"
	}
	label := strconv.Itoa(*rank)
	switch *rank {
	case 1:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	case 2:
		return color.New(color.FgWhite, color.Bold).Sprint(label)
	case 3:
		return color.New(color.FgRed).Sprint(label)
	}
	return label
}

func wineLabel(row report.RowView) string {
	w := row.Wine
	switch {
	case w.DisplayName != nil:
		return *w.DisplayName
	case w.Winery != nil && w.Vintage != nil:
		return *w.Winery + " " + *w.Vintage
	case w.Winery != nil:
		return *w.Winery
	case row.Synthetic:
		return color.HiBlackString("(unknown slot)")
	}
	return ""
}

func formatAvg(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func writeTastingTable(w io.Writer, page *dto.PaginatedTastingResponse) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Slug", "Title", "Host", "Status", "Wines", "Created"})
	var data [][]string
	for _, t := range page.Data {
		data = append(data, []string{
			t.PublicSlug, t.Title, t.HostName, t.Status,
			strconv.Itoa(t.WineCount), t.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d tastings)\n", page.Page, page.TotalPages, page.Total)
	return err
}

func init() {
	reportCmd.Flags().Bool("weighted", false, "rank by weighted criteria")
	rootCmd.AddCommand(reportCmd)
}
