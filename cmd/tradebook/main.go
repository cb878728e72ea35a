package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradebook/config"
	"tradebook/journal"
	"tradebook/logger"
)

var (
	flagConfig string
	flagDB     string

	cfg *config.Config
	log *zap.SugaredLogger
)

func main() {
	root := &cobra.Command{
		Use:           "tradebook",
		Short:         "tradebook keeps a trading journal and analyzes realized P&L",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if flagConfig != "" {
				cfg, err = config.LoadFromFile(flagConfig)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if flagDB != "" {
				cfg.Database.Path = flagDB
			}
			log, err = logger.New(cfg.Log.Level, cfg.Log.File)
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "path to the journal database (overrides config)")

	root.AddCommand(
		accountCmd(),
		tradeCmd(),
		tagCmd(),
		noteCmd(),
		importCmd(),
		statsCmd(),
		analyzeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tradebook: %v\n", err)
		os.Exit(1)
	}
}

// openJournal opens the configured store; callers must Close it.
func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	log.Debugw("journal opened", "path", cfg.Database.Path)
	return j, nil
}

// resolveAccount falls back to the configured default account when id is
// empty.
func resolveAccount(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if cfg.Analysis.DefaultAccount != "" {
		return cfg.Analysis.DefaultAccount, nil
	}
	return "", fmt.Errorf("no account given and no default_account configured")
}
