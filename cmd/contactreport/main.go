package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/contactreport/internal/adapters/dataset"
	service "github.com/okian/contactreport/internal/app"
	"github.com/okian/contactreport/internal/config"
	"github.com/okian/contactreport/pkg/logger"
	"github.com/okian/contactreport/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// flagValues holds command-line overrides; only flags the user set are applied.
type flagValues struct {
	dataDir      string
	outputDir    string
	outputFile   string
	logLevel     string
	metricsFile  string
	keepOriginal bool
	summaryLimit int
}

func newRootCmd() *cobra.Command {
	var f flagValues
	cmd := &cobra.Command{
		Use:   "contactreport",
		Short: "Build the contact analytics workbook",
		Long: `Reads the person and contact JSON files, writes the analysis sheets to an
xlsx workbook and prints the average gap between contacts by age.

Settings come from defaults, then the YAML file named by CONTACTREPORT_CONFIG,
then CONTACTREPORT_* environment variables, then flags.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	defaults := config.New()
	fs := cmd.Flags()
	fs.StringVar(&f.dataDir, "data-dir", defaults.DataDir, "directory holding the input JSON files")
	fs.StringVar(&f.outputDir, "output-dir", defaults.OutputDir, "directory for the report workbook")
	fs.StringVar(&f.outputFile, "output-file", defaults.OutputFile, "report workbook file name")
	fs.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here after the run")
	fs.BoolVar(&f.keepOriginal, "keep-original", defaults.KeepOriginalColumns, "write only ID, Name and Age columns")
	fs.IntVar(&f.summaryLimit, "summary-limit", defaults.SummaryLimit, "rows shown in the console gap summary")
	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flagValues) {
	fs := cmd.Flags()
	if fs.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fs.Changed("output-file") {
		cfg.OutputFile = f.outputFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if fs.Changed("keep-original") {
		cfg.KeepOriginalColumns = f.keepOriginal
	}
	if fs.Changed("summary-limit") {
		cfg.SummaryLimit = f.summaryLimit
	}
}

// run executes one report job. Inputs are loaded before the workbook is
// created so a missing file leaves no output behind.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.Get().With(logger.String("run_id", uuid.NewString()))

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	src, err := dataset.Load(ctx, dataset.Paths{
		PersonsSmall:  cfg.InputPath(cfg.PersonsSmallFile),
		PersonsLarge:  cfg.InputPath(cfg.PersonsLargeFile),
		ContactsSmall: cfg.InputPath(cfg.ContactsSmallFile),
		ContactsLarge: cfg.InputPath(cfg.ContactsLargeFile),
	})
	if err != nil {
		log.Error(ctx, "failed to load inputs", logger.String("data_dir", cfg.DataDir), logger.Error(err))
		return err
	}

	runner := service.New(
		service.WithLogger(log),
		service.WithKeepOriginalColumns(cfg.KeepOriginalColumns),
		service.WithSummaryLimit(cfg.SummaryLimit),
		service.WithSummaryWriter(out),
	)
	runErr := runner.RunToFile(ctx, src, cfg.OutputPath())

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "failed to write metrics", logger.String("path", cfg.MetricsFile), logger.Error(err))
			runErr = errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("report run: %w", runErr)
	}
	log.Info(ctx, "report run complete", logger.String("output", cfg.OutputPath()))
	return nil
}
