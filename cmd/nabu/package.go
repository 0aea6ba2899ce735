package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nabu-3/sdkgen/bundle"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/internal/prompts"
)

// defaultRepository is the data file packages are built from and imported
// into.
const defaultRepository = "nabu-data.yaml"

type packageOptions struct {
	repo     string
	customer int64
	sites    []string
}

func newPackageCmd(a *app) *cobra.Command {
	opts := &packageOptions{}
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Export and import site packages",
	}
	cmd.PersistentFlags().StringVar(&opts.repo, "repo", defaultRepository, "Data repository file")
	cmd.PersistentFlags().Int64Var(&opts.customer, "customer", 0, "Customer id")
	cmd.AddCommand(newPackageExportCmd(a, opts), newPackageImportCmd(a, opts))
	return cmd
}

func newPackageExportCmd(a *app, opts *packageOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export [file]",
		Short:   "Export sites of a customer with their languages and roles",
		Example: `  nabu package export --customer 1 --sites main,blog sites.nak`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.customer == 0 {
				return gen.NewConfigError("customer", nil, "required parameter is empty")
			}
			if len(opts.sites) == 0 {
				return gen.NewConfigError("sites", nil, "required parameter is empty")
			}
			ctx := cmd.Context()
			repo, err := bundle.OpenYAML(opts.repo)
			if err != nil {
				return err
			}
			customer, err := repo.Customer(ctx, opts.customer)
			if err != nil {
				return err
			}
			p := bundle.New(customer)
			refs := make([]bundle.Reference[bundle.Site], len(opts.sites))
			for i, s := range opts.sites {
				refs[i] = bundle.ByID[bundle.Site](s)
			}
			if _, err := p.AddSites(ctx, repo, refs...); err != nil {
				return err
			}
			var file string
			if len(args) > 0 {
				file = args[0]
			}
			written, err := p.ExportFile(file)
			if err != nil {
				return err
			}
			// Hashes granted during export must match on later imports.
			if err := repo.Flush(); err != nil {
				return err
			}
			a.logger.Info("package exported", "customer", customer.ID, "file", written, "objects", p.Count())
			prompts.PrintResult(a.stdout, []prompts.ResultField{
				{Label: "Sites", Value: strconv.Itoa(len(p.Sites()))},
				{Label: "Languages", Value: strconv.Itoa(len(p.Languages()))},
				{Label: "Roles", Value: strconv.Itoa(len(p.Roles()))},
				{Label: "File", Value: written},
			}, "Package exported")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.sites, "sites", nil, "Site ids or keys")
	return cmd
}

func newPackageImportCmd(a *app, opts *packageOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "import file",
		Short:   "Import a site package into the repository",
		Example: `  nabu package import --customer 1 sites.nak`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.customer == 0 {
				return gen.NewConfigError("customer", nil, "required parameter is empty")
			}
			ctx := cmd.Context()
			repo, err := bundle.OpenYAML(opts.repo)
			if err != nil {
				return err
			}
			customer, err := repo.Customer(ctx, opts.customer)
			if err != nil {
				return err
			}
			p, err := bundle.ImportFile(ctx, args[0], repo)
			if err != nil {
				return err
			}
			if p.Customer.ID != customer.ID {
				return fmt.Errorf("%w: package belongs to customer %d", bundle.ErrNotOwner, p.Customer.ID)
			}
			a.logger.Info("package imported", "customer", customer.ID, "file", args[0], "objects", p.Count())
			prompts.PrintResult(a.stdout, []prompts.ResultField{
				{Label: "Sites", Value: strconv.Itoa(len(p.Sites()))},
				{Label: "Languages", Value: strconv.Itoa(len(p.Languages()))},
				{Label: "Roles", Value: strconv.Itoa(len(p.Roles()))},
			}, "Package imported")
			return nil
		},
	}
}
