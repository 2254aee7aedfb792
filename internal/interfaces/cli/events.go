package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// NewEventsCmd tails dataset.refreshed events from Kafka.
func NewEventsCmd(open func(cfg config.MessagingConfig, fromStart bool, log logging.Logger) (EventStream, error)) *cobra.Command {
	var (
		fromStart bool
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail dataset.refreshed events",
		Long: "events follows the dataset event topic in the configured consumer group\n" +
			"and prints one line per refresh until interrupted or --limit is reached.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if open == nil {
				return errors.New(errors.ErrCodeFeatureDisabled, "events is not available in this build")
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			stream, err := open(cliCtx.Config.Messaging, fromStart, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stream.Close()

			printed := 0
			return stream.Consume(cmd.Context(), func(ctx context.Context, evt *dataset.RefreshedEvent) error {
				if err := PrintResult(cmd, eventLine{evt}); err != nil {
					return err
				}
				printed++
				if limit > 0 && printed >= limit {
					return kafka.ErrStopConsuming
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "replay retained events instead of only new ones")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events (0 = follow)")
	return cmd
}

type eventLine struct{ *dataset.RefreshedEvent }

func (e eventLine) TableHeaders() []string {
	return []string{"time", "event", "version", "source", "records", "fetch time", "slow"}
}

func (e eventLine) TableRows() [][]string {
	return [][]string{{
		e.FetchedAt.Format(time.RFC3339),
		e.EventID(),
		fmt.Sprintf("%d", e.Version),
		e.Source,
		fmt.Sprintf("%d", e.RecordCount),
		(time.Duration(e.FetchDurationMS) * time.Millisecond).String(),
		fmt.Sprintf("%t", e.Slow),
	}}
}

//Personal.AI order the ending
