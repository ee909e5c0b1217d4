// Package commands implements the querykit CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querykit/cli/internal/config"
	"github.com/satishbabariya/querykit/cli/internal/version"
	"github.com/satishbabariya/querykit/internal/debug"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/sqlgen"
	"github.com/satishbabariya/querykit/runtime/client"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath  string
	debug       bool
	dialect     string
	databaseURL string

	cfg  *config.Config
	open func(provider, dsn string) (*client.Client, error)
}

// NewRootCommand creates the querykit command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{
		open: func(provider, dsn string) (*client.Client, error) {
			return client.Open(provider, dsn)
		},
	})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "querykit",
		Short:         "Build, inspect and run paged SQL queries",
		Long:          "querykit assembles filtered, sorted and paged SQL from a base query and runs it against MySQL, PostgreSQL or SQLite.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default searches .querykit.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "log executed queries to stderr")
	flags.StringVar(&a.dialect, "dialect", "", "SQL dialect or provider: generic, postgres, mysql, sqlite, oracle")
	flags.StringVar(&a.databaseURL, "database-url", "", "database connection string")

	cmd.AddCommand(
		newBuildCommand(a),
		newCountCommand(a),
		newRunCommand(a),
		newExplainCommand(a),
		newInitCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = a.dialect
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = a.databaseURL
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	a.cfg = cfg

	debug.Init(cfg.Debug)
	if cfg.File != "" {
		debug.Debug("config loaded", "file", cfg.File, "dialect", cfg.Dialect)
	}
	return nil
}

// controller builds an offline controller for the configured dialect.
func (a *app) controller() (*builder.Controller, error) {
	dialect, err := sqlgen.ParseDialect(a.cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return builder.New(dialect), nil
}

func (a *app) connect() (*client.Client, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database URL: set --database-url, QUERYKIT_DATABASE_URL or DATABASE_URL")
	}
	return a.open(a.cfg.Dialect, a.cfg.DatabaseURL)
}
