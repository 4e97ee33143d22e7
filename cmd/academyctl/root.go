package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/innio31/Impact-Digital-Academy-sub022/config"
	"github.com/innio31/Impact-Digital-Academy-sub022/infra/database"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/logging"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var lookupEnv = os.LookupEnv

// commandContext lazily loads config and opens the database once per run.
type commandContext struct {
	configFile *string
	verbose    *bool

	cfg     *config.Config
	log     *slog.Logger
	db      *gorm.DB
	store   repository.Store
	closers []func() error
}

func (c *commandContext) close() {
	for _, fn := range c.closers {
		_ = fn()
	}
	c.closers = nil
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (c *commandContext) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	var (
		cfg config.Config
		err error
	)
	if c.configFile != nil && *c.configFile != "" {
		cfg, err = config.Load(*c.configFile, lookupEnv)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

func (c *commandContext) logger(stderr io.Writer) *slog.Logger {
	if c.log != nil {
		return c.log
	}
	level := "warn"
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	c.log = logging.New(logging.Options{Level: level, Format: "text", Output: stderr})
	return c.log
}

func (c *commandContext) openStore(cmd *cobra.Command) (repository.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, c.logger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	c.db = db
	c.store = repository.NewStore(db)
	return c.store, nil
}

func (c *commandContext) deps(cmd *cobra.Command) (api.Deps, error) {
	store, err := c.openStore(cmd)
	if err != nil {
		return api.Deps{}, err
	}
	cfg, _ := c.config()
	log := c.logger(cmd.ErrOrStderr())
	mailer, closeMailer := api.NewMailer(cfg, log)
	c.closers = append(c.closers, closeMailer)
	return api.NewDeps(store, helper.SetupAuth(cfg.AccessSecret), mailer, log, services.ReviewOptions{
		ResendOnReapproval: cfg.ResendOnReapproval,
	}), nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	ctx := &commandContext{configFile: &configFlag, verbose: &verboseFlag}

	rootCmd := &cobra.Command{
		Use:           "academyctl",
		Short:         "Administer Impact Digital Academy applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newStaffCommand(ctx))
	rootCmd.AddCommand(newApplicationsCommand(ctx))

	return rootCmd
}
