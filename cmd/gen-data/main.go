package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/contactreport/internal/adapters/dataset"
	"github.com/okian/contactreport/internal/config"
	"github.com/okian/contactreport/internal/datagen"
	"github.com/okian/contactreport/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := datagen.DefaultConfig()
	dataDir := config.New().DataDir

	cmd := &cobra.Command{
		Use:          "gen-data",
		Short:        "Generate synthetic person and contact input files",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd.Context(), cfg, dataDir)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&dataDir, "data-dir", dataDir, "directory to write the four input files to")
	fs.IntVar(&cfg.Persons, "persons", cfg.Persons, "persons in the large table")
	fs.IntVar(&cfg.Contacts, "contacts", cfg.Contacts, "distinct contacts before duplication")
	fs.Float64Var(&cfg.SmallFraction, "small-fraction", cfg.SmallFraction, "share of rows routed to the small files")
	fs.Float64Var(&cfg.DuplicateRate, "duplicate-rate", cfg.DuplicateRate, "share of contacts emitted twice")
	fs.Float64Var(&cfg.ShortRate, "short-rate", cfg.ShortRate, "share of contacts under five minutes")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed; 0 picks one")
	return cmd
}

// generate writes a dataset under the default input file names so the
// report command reads it without further settings.
func generate(ctx context.Context, cfg datagen.Config, dataDir string) error {
	src, stats, err := datagen.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	names := config.New()
	paths := dataset.Paths{
		PersonsSmall:  filepath.Join(dataDir, names.PersonsSmallFile),
		PersonsLarge:  filepath.Join(dataDir, names.PersonsLargeFile),
		ContactsSmall: filepath.Join(dataDir, names.ContactsSmallFile),
		ContactsLarge: filepath.Join(dataDir, names.ContactsLargeFile),
	}
	if err := datagen.Write(ctx, paths, src); err != nil {
		return err
	}

	logger.Get().Info(ctx, "dataset written",
		logger.String("data_dir", dataDir),
		logger.Int("persons", stats.Persons),
		logger.Int("smallPersons", stats.SmallPersons),
		logger.Int("contacts", stats.Contacts),
		logger.String("seed", strconv.FormatUint(stats.Seed, 10)),
	)
	return nil
}
