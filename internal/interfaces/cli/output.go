package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/domain/record"
)

// titleWidth is the number of title characters shown in table output.
const titleWidth = record.TitleDisplayLimit

// missing is printed for absent values.
const missing = "-"

// tableProvider is implemented by results that have a table rendering.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// footerProvider adds summary lines under a table.
type footerProvider interface {
	TableFooter() []string
}

// PrintResult writes data in the selected output format.  Without a
// CLIContext it falls back to JSON.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	if format == OutputTable {
		if tp, ok := data.(tableProvider); ok {
			return printTable(cmd.OutOrStdout(), tp)
		}
	}
	return printJSON(cmd.OutOrStdout(), data)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printTable(w io.Writer, tp tableProvider) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tp.TableHeaders())
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(tp.TableRows())
	table.Render()

	if fp, ok := tp.(footerProvider); ok {
		for _, line := range fp.TableFooter() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintError writes err to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintWarning writes a highlighted notice to stderr.
func PrintWarning(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("Warning:"), msg)
}

// PrintSuccess writes a confirmation to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// orMissing substitutes the absent-value marker for "".
func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

//Personal.AI order the ending
