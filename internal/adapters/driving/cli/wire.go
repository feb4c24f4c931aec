package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/meetsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/meetsync/internal/adapters/driven/sources/drive"
	"github.com/custodia-labs/meetsync/internal/adapters/driven/sources/pocket"
	"github.com/custodia-labs/meetsync/internal/adapters/driven/sources/zoomweb"
	"github.com/custodia-labs/meetsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/meetsync/internal/adapters/driven/vault"
	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/core/services"
	"github.com/custodia-labs/meetsync/internal/logger"
)

func init() {
	rootCmd.PersistentPreRunE = setup
}

// setup is the composition root: it loads configuration and wires the
// engine before any command runs. Tests bypass it via SetServices.
func setup(cmd *cobra.Command, _ []string) error {
	if svcs != nil {
		return nil
	}
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	path := cfgPath
	if path == "" {
		var err error
		if path, err = file.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := file.Load(path)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level})
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}

	writer, err := vault.NewWriter(cfg.OutputDir(), log)
	if err != nil {
		return err
	}

	factory := services.NewAdapterFactory()
	factory.Register("pocket", func(source domain.Source) (driven.SourceAdapter, error) {
		return pocket.New(source, log)
	})
	factory.Register("zoomweb", func(source domain.Source) (driven.SourceAdapter, error) {
		return zoomweb.New(source, log)
	})
	ctx := cmd.Context()
	factory.Register("drive", func(source domain.Source) (driven.SourceAdapter, error) {
		return drive.New(ctx, source, log)
	})

	stabilizer := services.NewStabilizer(cfg.Stabilize.MaxWait(), cfg.Stabilize.PollInterval(), log)
	engine := services.NewSyncEngine(cfg.DomainSources(), factory, store, writer,
		stabilizer, services.NewClassifier(), log)

	svcs = &Services{
		Runner:  engine,
		Store:   store,
		Sources: cfg.DomainSources(),
	}
	return nil
}
