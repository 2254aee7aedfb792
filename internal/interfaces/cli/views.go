package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/client"
	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// viewFunc fetches one aggregate view for q.
type viewFunc func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error)

// newViewCmd builds a command that prints one aggregate of the filtered
// collection.
func newViewCmd(use, short string, fetch viewFunc) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			out, err := fetch(ctx, cliCtx.Client.Dashboard(), q)
			if err != nil {
				return err
			}
			return PrintResult(cmd, out)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

// NewStatsCmd prints the headline statistics.
func NewStatsCmd() *cobra.Command {
	return newViewCmd("stats", "Show record count and average scores", func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error) {
		s, err := d.Stats(ctx, q)
		if err != nil {
			return nil, err
		}
		return statsTable{s}, nil
	})
}

// NewFacetsCmd lists the options of every facet.
func NewFacetsCmd() *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the selectable values of every facet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseFilters(filters)
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Dashboard().Facets(ctx, selected)
			if err != nil {
				return err
			}
			warnStale(cmd, resp.StaleSelections)
			return PrintResult(cmd, facetsTable{resp})
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "mark a selection key=value (repeatable)")
	return cmd
}

// NewChartsCmd groups the chart data commands.
func NewChartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Print the data behind the dashboard charts",
	}
	cmd.AddCommand(
		newViewCmd("sectors", "Record count per sector", func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error) {
			v, err := d.Sectors(ctx, q)
			if err != nil {
				return nil, err
			}
			return distributionTable{v}, nil
		}),
		newViewCmd("heatmap", "Mean intensity per sector and region", func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error) {
			v, err := d.Heatmap(ctx, q)
			if err != nil {
				return nil, err
			}
			return heatmapTable{v}, nil
		}),
		newViewCmd("scatter", "Intensity, likelihood and relevance per record", func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error) {
			v, err := d.Scatter(ctx, q)
			if err != nil {
				return nil, err
			}
			return scatterTable(v), nil
		}),
		newViewCmd("years", "Scores by publication year", func(ctx context.Context, d *client.DashboardClient, q client.Query) (interface{}, error) {
			v, err := d.Years(ctx, q)
			if err != nil {
				return nil, err
			}
			return yearsTable{v}, nil
		}),
	)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// Table renderings
// ─────────────────────────────────────────────────────────────────────────────

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type statsTable struct{ *dto.Statistics }

func (t statsTable) TableHeaders() []string {
	return []string{"records", "avg intensity", "avg likelihood", "avg relevance"}
}

func (t statsTable) TableRows() [][]string {
	return [][]string{{
		strconv.Itoa(t.TotalRecords),
		formatFloat(t.AvgIntensity),
		formatFloat(t.AvgLikelihood),
		formatFloat(t.AvgRelevance),
	}}
}

type facetsTable struct{ *dto.FacetsResponse }

func (t facetsTable) TableHeaders() []string {
	return []string{"facet", "selected", "options"}
}

func (t facetsTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Facets))
	for _, f := range t.Facets {
		rows = append(rows, []string{
			f.Label,
			orMissing(f.Selected),
			fmt.Sprintf("%d: %s", len(f.Options), record.Abbreviate(strings.Join(f.Options, ", "), 80)),
		})
	}
	return rows
}

type distributionTable struct{ *dto.Distribution }

func (t distributionTable) TableHeaders() []string { return []string{"sector", "records"} }

func (t distributionTable) TableRows() [][]string {
	rows := make([][]string, len(t.Labels))
	for i, label := range t.Labels {
		rows[i] = []string{label, strconv.Itoa(t.Values[i])}
	}
	return rows
}

type heatmapTable struct{ *dto.Heatmap }

func (t heatmapTable) TableHeaders() []string {
	return append([]string{"sector"}, t.Regions...)
}

func (t heatmapTable) TableRows() [][]string {
	rows := make([][]string, len(t.Sectors))
	for i, sector := range t.Sectors {
		row := make([]string, 0, len(t.Regions)+1)
		row = append(row, sector)
		for _, v := range t.Values[i] {
			row = append(row, formatFloat(v))
		}
		rows[i] = row
	}
	return rows
}

type scatterTable []dto.ScatterPoint

func (t scatterTable) TableHeaders() []string {
	return []string{"title", "sector", "country", "intensity", "likelihood", "relevance"}
}

func (t scatterTable) TableRows() [][]string {
	rows := make([][]string, len(t))
	for i, p := range t {
		rows[i] = []string{
			orMissing(record.Abbreviate(p.Text, titleWidth)),
			orMissing(p.Sector),
			orMissing(p.Country),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.Z),
		}
	}
	return rows
}

type yearsTable struct{ *dto.YearSeries }

func (t yearsTable) TableHeaders() []string {
	return []string{"year", "intensity", "likelihood", "relevance"}
}

func (t yearsTable) TableRows() [][]string {
	rows := make([][]string, len(t.Years))
	for i, y := range t.Years {
		rows[i] = []string{
			strconv.Itoa(y),
			formatFloat(t.Intensities[i]),
			formatFloat(t.Likelihoods[i]),
			formatFloat(t.Relevances[i]),
		}
	}
	return rows
}

//Personal.AI order the ending
