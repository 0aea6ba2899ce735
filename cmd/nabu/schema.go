package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/internal/prompts"
	"github.com/nabu-3/sdkgen/schema"
	"github.com/nabu-3/sdkgen/schema/snapshot"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the database schema",
	}
	cmd.AddCommand(newSchemaDumpCmd(a), newSchemaDescribeCmd(a))
	return cmd
}

func newSchemaDumpCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write a snapshot of the schema",
		Long: `Write a snapshot of every table of the schema. The format follows the
extension of the output: a directory of JSON sidecars, .yaml, .msgpack or .txtar.`,
		Example: `  nabu schema dump --dsn 'root@tcp(localhost)/nabu-3' -s nabu-3 --out nabu.txtar`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return gen.NewConfigError("out", nil, "required parameter is empty")
			}
			if err := a.requireSchema(); err != nil {
				return err
			}
			ctx := cmd.Context()
			d, closer, err := a.cfg.OpenDescriber(ctx, a.logger)
			if err != nil {
				return err
			}
			defer closer.Close()
			set, err := snapshot.Dump(ctx, d, a.cfg.Schema, out)
			if err != nil {
				return err
			}
			prompts.PrintResult(a.stdout, []prompts.ResultField{
				{Label: "Schema", Value: a.cfg.Schema},
				{Label: "Tables", Value: fmt.Sprint(set.Len())},
				{Label: "Snapshot", Value: out},
			}, "Snapshot written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Snapshot file or directory to write")
	return cmd
}

func newSchemaDescribeCmd(a *app) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the descriptor and the classification of a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if table == "" {
				return gen.NewConfigError("table", nil, "required parameter is empty")
			}
			if err := a.requireSchema(); err != nil {
				return err
			}
			ctx := cmd.Context()
			d, closer, err := a.cfg.OpenDescriber(ctx, a.logger)
			if err != nil {
				return err
			}
			defer closer.Close()
			desc, err := d.Describe(ctx, table, a.cfg.Schema)
			if err != nil {
				return err
			}
			sidecar, err := schema.MarshalSidecar(desc)
			if err != nil {
				return err
			}
			res, err := classify.ClassifyWithSiblings(ctx, desc, a.cfg.Registry(), d)
			if err != nil {
				return err
			}
			classification, err := json.MarshalIndent(res, "", "    ")
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s\n%s\n", sidecar, classification)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Table to describe")
	return cmd
}
