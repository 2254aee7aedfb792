// Package cli implements insightctl, the command-line client of the
// InsightBoard API.
package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/client"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
	Timeout      time.Duration
}

// RecordStore is the table insightctl import writes to.
type RecordStore interface {
	EnsureSchema(ctx context.Context) error
	Replace(ctx context.Context, records []record.Record) (int, error)
}

// EventStream delivers dataset.refreshed events.
type EventStream interface {
	Consume(ctx context.Context, handle kafka.RefreshedHandler) error
	Close() error
}

// CommandDependencies opens the infrastructure used by the commands that
// bypass the API.  Nil members disable those commands at run time.
type CommandDependencies struct {
	OpenRecordStore func(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (RecordStore, func() error, error)
	OpenEventStream func(cfg config.MessagingConfig, fromStart bool, log logging.Logger) (EventStream, error)
}

// NewRootCommand builds insightctl with every subcommand registered.
func NewRootCommand(deps CommandDependencies) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "insightctl",
		Short: "InsightBoard CLI: query, chart and export analytical records",
		Long: "insightctl talks to an InsightBoard API server.  It filters, searches and\n" +
			"pages the record table, prints the dashboard aggregates, triggers dataset\n" +
			"refreshes and exports, and loads datasets into PostgreSQL.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: INSIGHT_* environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputTable, "output format (table, json)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address (default: from server.host/server.port)")

	cmd.AddCommand(
		NewRecordsCmd(),
		NewStatsCmd(),
		NewFacetsCmd(),
		NewChartsCmd(),
		NewDatasetCmd(),
		NewExportCmd(),
		NewImportCmd(deps.OpenRecordStore),
		NewEventsCmd(deps.OpenEventStream),
		NewVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case OutputTable, OutputJSON:
	default:
		return errors.InvalidParam(fmt.Sprintf("output format %q is invalid; expected table|json", opts.OutputFormat))
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            opts.LogLevel,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	apiClient, err := client.NewClient(serverAddr(opts.ServerAddr, cfg.Server), client.WithTimeout(opts.Timeout))
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       apiClient,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
	}))
	return nil
}

// serverAddr prefers the --server flag and otherwise derives the address
// from the server section.  Wildcard hosts become localhost.
func serverAddr(flag string, cfg config.ServerConfig) string {
	if flag != "" {
		if !strings.Contains(flag, "://") {
			flag = "http://" + flag
		}
		return flag
	}
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultServerPort
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// GetCLIContext extracts the CLIContext installed by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InvalidParam("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InvalidParam("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds one command by the --timeout flag.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// Execute runs insightctl and prints any error to stderr.
func Execute(deps CommandDependencies) error {
	rootCmd := NewRootCommand(deps)
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

//Personal.AI order the ending
