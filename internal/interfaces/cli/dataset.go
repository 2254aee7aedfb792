package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	dto "github.com/turtacn/InsightBoard/pkg/types/dashboard"
)

// NewDatasetCmd groups the snapshot commands.
func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect or refresh the serving dataset",
	}

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the serving snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			out, err := cliCtx.Client.Dashboard().Dataset(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, datasetTable{out})
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the dataset now and install it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			out, err := cliCtx.Client.Dashboard().Refresh(ctx)
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("dataset refreshed")
			return PrintResult(cmd, datasetTable{out})
		},
	}

	cmd.AddCommand(info, refresh)
	return cmd
}

type datasetTable struct{ *dto.DatasetInfo }

func (t datasetTable) TableHeaders() []string {
	return []string{"version", "source", "records", "fetched at", "fetch time", "slow"}
}

func (t datasetTable) TableRows() [][]string {
	slow := "no"
	if t.Slow {
		slow = color.YellowString("yes")
	}
	return [][]string{{
		strconv.FormatUint(t.Version, 10),
		t.Source,
		strconv.Itoa(t.RecordCount),
		t.FetchedAt.Format(time.RFC3339),
		(time.Duration(t.FetchDurationMS) * time.Millisecond).String(),
		slow,
	}}
}

// NewExportCmd uploads the matched rows as a workbook.
func NewExportCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matched records to an XLSX workbook in object storage",
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

			out, err := cliCtx.Client.Dashboard().Export(ctx, q)
			if err != nil {
				return err
			}
			return PrintResult(cmd, exportTable{out})
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort column: "+columnNames())
	cmd.Flags().StringVar(&flags.order, "order", "", "sort order: asc|desc")
	return cmd
}

type exportTable struct{ *dto.ExportResponse }

func (t exportTable) TableHeaders() []string {
	return []string{"object", "rows", "expires at"}
}

func (t exportTable) TableRows() [][]string {
	return [][]string{{t.ObjectKey, strconv.Itoa(t.Rows), t.ExpiresAt.Format(time.RFC3339)}}
}

func (t exportTable) TableFooter() []string {
	return []string{fmt.Sprintf("Download: %s", t.URL)}
}

//Personal.AI order the ending
