package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/compiler/load"
	"github.com/nabu-3/sdkgen/internal/prompts"
	"github.com/nabu-3/sdkgen/schema"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate PHP classes",
	}
	cmd.AddCommand(newGenTableCmd(a), newGenSchemaCmd(a))
	return cmd
}

type genTableOptions struct {
	table, class, label string
	abstract            bool
}

func newGenTableCmd(a *app) *cobra.Command {
	opts := &genTableOptions{}
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Generate the classes of one table",
		Example: `  nabu gen table --table nb_site -a "Rafael Gutierrez" -e rgutierrez@nabu-3.com -s nabu-3 -t src
  nabu gen table --table nb_site --class CNabuSiteBase --namespace 'nabu\data\site\base' --abstract`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenTable(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.table, "table", "", "Table to generate")
	cmd.Flags().StringVar(&opts.class, "class", "", "Class name; derived from the table when empty")
	cmd.Flags().StringVar(&opts.label, "label", "", "Human readable entity name")
	cmd.Flags().BoolVar(&opts.abstract, "abstract", false, "Generate an abstract class")
	return cmd
}

func (a *app) runGenTable(ctx context.Context, opts *genTableOptions) error {
	if err := a.requireGen(); err != nil {
		return err
	}
	d, closer, err := a.cfg.OpenDescriber(ctx, a.logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	if opts.table == "" {
		if !a.interactive() {
			return gen.NewConfigError("table", nil, "required parameter is empty")
		}
		tables, _ := d.Tables(ctx, a.cfg.Schema)
		if err := prompts.RunTableForm(&opts.table, tables); err != nil {
			return err
		}
	}
	m := &load.Manifest{
		Schema:    a.cfg.Schema,
		Namespace: a.cfg.Namespace,
		Entities: []gen.Entity{{
			Table:    opts.table,
			Class:    opts.class,
			Label:    opts.label,
			Abstract: opts.abstract,
		}},
	}
	return a.generate(ctx, d, m)
}

type genSchemaOptions struct {
	manifest string
	base     bool
	watch    bool
}

func newGenSchemaCmd(a *app) *cobra.Command {
	opts := &genSchemaOptions{}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the classes of every table of the schema or of a manifest",
		Example: `  nabu gen schema --manifest entities.yaml
  nabu gen schema --snapshot nabu.txtar --base --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenSchema(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Entity manifest; every table of the schema when empty")
	cmd.Flags().BoolVar(&opts.base, "base", false, "Generate abstract Base classes in a base namespace")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Regenerate when the manifest or the snapshot changes")
	return cmd
}

func (a *app) runGenSchema(ctx context.Context, opts *genSchemaOptions) error {
	if err := a.requireGen(); err != nil {
		return err
	}
	if opts.manifest == "" {
		opts.manifest = a.cfg.Manifest
	}
	once := func(ctx context.Context) error {
		d, closer, err := a.cfg.OpenDescriber(ctx, a.logger)
		if err != nil {
			return err
		}
		defer closer.Close()
		m, err := a.manifest(ctx, d, opts)
		if err != nil {
			return err
		}
		return a.generate(ctx, d, m)
	}
	if !opts.watch {
		return once(ctx)
	}

	var paths []string
	for _, p := range []string{opts.manifest, a.cfg.Snapshot} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return gen.NewConfigError("watch", nil, "needs a manifest or a snapshot to watch")
	}
	if err := once(ctx); err != nil && !errors.Is(err, errClassesFailed) {
		return err
	}
	return watch(ctx, a.logger, paths, defaultDebounce, func(ctx context.Context) error {
		err := once(ctx)
		if errors.Is(err, errClassesFailed) {
			return nil
		}
		return err
	})
}

func (a *app) manifest(ctx context.Context, d schema.Describer, opts *genSchemaOptions) (*load.Manifest, error) {
	if opts.manifest != "" {
		m, err := load.LoadFile(opts.manifest)
		if err != nil {
			return nil, err
		}
		if m.Schema == "" {
			m.Schema = a.cfg.Schema
		}
		if m.Namespace == "" {
			m.Namespace = a.cfg.Namespace
		}
		m.Base = m.Base || opts.base
		return m, nil
	}
	m, err := load.FromSchema(ctx, d, a.cfg.Schema, a.cfg.Namespace)
	if err != nil {
		return nil, err
	}
	m.Base = opts.base
	return m, nil
}

// generate runs the entities of m and prints one status line per class.
func (a *app) generate(ctx context.Context, d schema.Describer, m *load.Manifest) error {
	entities, err := m.Resolve(a.cfg.Dict())
	if err != nil {
		return err
	}
	g, err := gen.NewGenerator(d, append(a.cfg.GenOptions(), gen.WithLogger(a.logger))...)
	if err != nil {
		return err
	}
	report, err := g.Generate(ctx, entities...)
	if err != nil {
		return err
	}
	printReport(a.stdout, report)
	if !report.OK() {
		return errClassesFailed
	}
	return nil
}

// printReport prints the classes in name order: OK for the generated ones,
// ERROR with the cause for the failed ones.
func printReport(w io.Writer, r *gen.Report) {
	status := make(map[string]error)
	for _, path := range slices.Concat(r.Written, r.Unchanged) {
		if filepath.Ext(path) != ".php" {
			continue
		}
		status[strings.TrimSuffix(filepath.Base(path), ".php")] = nil
	}
	for _, f := range r.Failed {
		if f.Cause != nil {
			status[f.Class] = f.Cause
		} else {
			status[f.Class] = f
		}
	}
	classes := make([]string, 0, len(status))
	for c := range status {
		classes = append(classes, c)
	}
	slices.Sort(classes)
	for _, c := range classes {
		prompts.PrintStatus(w, c, status[c])
	}
	fmt.Fprintf(w, "%d written, %d unchanged, %d failed\n", len(r.Written), len(r.Unchanged), len(r.Failed))
}
