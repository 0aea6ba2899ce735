package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nabu-3/sdkgen/internal/mcpserver"
	"github.com/nabu-3/sdkgen/internal/version"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve describe, classify and generate tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdio carries the protocol; options can not be prompted.
			if err := a.requireSchema(); err != nil {
				return err
			}
			d, closer, err := a.cfg.OpenDescriber(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer closer.Close()
			s, err := mcpserver.New(a.cfg, d, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("mcp server started", "name", mcpserver.Name, "version", version.Short())
			return s.ServeStdio()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
}
