package main

import (
	"context"
	"encoding/json"
	"io"

	"dialdesk/internal/core/version"
	"dialdesk/internal/platform/config"
	"dialdesk/internal/platform/logger"
	"dialdesk/internal/platform/store"

	"github.com/spf13/cobra"
)

const serviceName = "dialdesk-cli"

// openStore is swapped in tests
var openStore = func(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, store.FromConfig(config.New(), "cli"), store.WithLogger(*logger.Named("store")))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dialdesk-cli",
		Short:        "Bulk import and admin tools for dialdesk",
		Version:      version.Info(serviceName).String(),
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newImportCmd(),
		newTemplateCmd(),
		newTokenCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), version.Info(serviceName))
		},
	}
}
