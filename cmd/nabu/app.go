package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/internal/config"
	"github.com/nabu-3/sdkgen/internal/prompts"
)

// errClassesFailed reports a batch where at least one class failed. The
// failures were already printed.
var errClassesFailed = errors.New("nabu: one or more classes failed")

// app holds the process dependencies and the state shared by commands.
type app struct {
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configPath     string
	verbose        bool
	logFormat      string
	nonInteractive bool
	flags          overrides

	cfg    *config.Config
	logger *slog.Logger
}

// overrides are the command line values replacing nabu.yaml settings.
type overrides struct {
	author, authorEmail, schema, target, namespace string
	dialect, dsn, snapshot                         string
	workers                                        int
	features                                       []string
}

func newApp(stdin *os.File, stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, getenv: getenv}
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errClassesFailed) {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nabu",
		Short:         "Generate nabu-3 SDK classes from a database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.FileName, "Path to the project configuration file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output")
	pf.StringVar(&a.logFormat, "log-format", "text", "Log format (text or json)")
	pf.BoolVar(&a.nonInteractive, "non-interactive", false, "Fail instead of prompting for missing options")

	pf.StringVarP(&a.flags.author, "author", "a", "", "Author name stamped into class comments")
	pf.StringVarP(&a.flags.authorEmail, "author-email", "e", "", "Author email stamped into class comments")
	pf.StringVarP(&a.flags.schema, "schema", "s", "", "Database schema")
	pf.StringVarP(&a.flags.target, "path", "t", "", "Target directory of the generated classes")
	pf.StringVar(&a.flags.namespace, "namespace", "", `Namespace of the generated classes, e.g. nabu\data`)
	pf.StringVar(&a.flags.dialect, "dialect", "", "Database dialect (mysql, postgres or sqlite)")
	pf.StringVar(&a.flags.dsn, "dsn", "", "Database connection string")
	pf.StringVar(&a.flags.snapshot, "snapshot", "", "Schema snapshot used instead of a connection")
	pf.IntVar(&a.flags.workers, "workers", 0, "Number of entities generated concurrently")
	pf.StringSliceVar(&a.flags.features, "features", nil, "Enabled features (list, xml, sidecar, skip-unchanged)")

	root.AddCommand(
		newGenCmd(a),
		newSchemaCmd(a),
		newPackageCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

// load builds the logger and the effective configuration.
func (a *app) load(cmd *cobra.Command) error {
	logger, err := newLogger(a.stderr, a.verbose, a.logFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	cfg, err := config.LoadEnv(a.configPath, a.getenv)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("author", &cfg.Author, a.flags.author)
	set("author-email", &cfg.AuthorEmail, a.flags.authorEmail)
	set("schema", &cfg.Schema, a.flags.schema)
	set("path", &cfg.Target, a.flags.target)
	set("namespace", &cfg.Namespace, a.flags.namespace)
	set("dialect", &cfg.Dialect, a.flags.dialect)
	set("dsn", &cfg.DSN, a.flags.dsn)
	set("snapshot", &cfg.Snapshot, a.flags.snapshot)
	if flags.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if flags.Changed("features") {
		cfg.Features = a.flags.features
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	logger.Debug("configuration loaded", "path", a.configPath, "schema", cfg.Schema, "dialect", cfg.Dialect, "snapshot", cfg.Snapshot)
	return nil
}

func (a *app) interactive() bool {
	return !a.nonInteractive && prompts.Interactive(a.stdin)
}

// requireGen makes sure the options of a generation run are set, prompting
// for the missing ones when possible.
func (a *app) requireGen() error {
	if len(a.cfg.Missing()) > 0 && a.interactive() {
		if err := prompts.RunGenForm(a.cfg); err != nil {
			return err
		}
	}
	return a.cfg.RequireComplete()
}

// requireSchema makes sure a schema name is set.
func (a *app) requireSchema() error {
	if a.cfg.Schema == "" {
		return gen.NewConfigError("schema", nil, "required parameter is empty")
	}
	return nil
}

func newLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("nabu: unknown log format %q", format)
}
