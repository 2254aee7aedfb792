package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// NewImportCmd loads a JSON dataset into the PostgreSQL records table,
// replacing its contents.
func NewImportCmd(open func(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (RecordStore, func() error, error)) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Replace the PostgreSQL records table with a JSON dataset",
		Example: "  insightctl import --file data.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if open == nil {
				return errors.New(errors.ErrCodeFeatureDisabled, "import is not available in this build")
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeNotFound, "open dataset file").WithDetail(file)
			}
			defer f.Close()
			records, err := record.Decode(f)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeDataParse, "decode dataset file").WithDetail(file)
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			store, closeStore, err := open(ctx, cliCtx.Config.Database, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if closeStore != nil {
					_ = closeStore()
				}
			}()

			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := store.Replace(ctx, records)
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("dataset imported", logging.String("file", file), logging.Int("records", n))
			PrintSuccess(cmd, fmt.Sprintf("imported %d records from %s", n, file))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of records (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

//Personal.AI order the ending
