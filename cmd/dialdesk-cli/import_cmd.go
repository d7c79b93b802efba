package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"dialdesk/internal/modkit"
	"dialdesk/internal/platform/config"
	"dialdesk/internal/services/bulk/domain"
	bulkmod "dialdesk/internal/services/bulk/module"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type importOutput struct {
	Command    string              `json:"command"`
	DurationMS int64               `json:"duration_ms"`
	Result     domain.ImportResult `json:"result"`
}

func newImportCmd() *cobra.Command {
	var (
		entity string
		file   string
		teamID string
		userID string
		apply  bool
		skip   bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV file for a team (dry-run unless --apply)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := domain.ParseEntity(entity)
			if err != nil {
				return err
			}
			if !e.Importable() {
				return fmt.Errorf("%s cannot be imported", e)
			}
			if _, err := uuid.Parse(teamID); err != nil {
				return fmt.Errorf("invalid --team: %w", err)
			}
			if userID != "" {
				if _, err := uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			m := bulkmod.New(modkit.FromStore(st, config.New(), nil), bulkmod.FromConfig(config.New()))
			ports, ok := modkit.PortsOf[bulkmod.Ports](m)
			if !ok {
				return fmt.Errorf("bulk module exposes no ports")
			}

			start := time.Now()
			res, err := ports.Bulk.Import(cmd.Context(), domain.ImportJobRequest{
				Entity:         e,
				Raw:            raw,
				Scope:          domain.Scope{TeamID: teamID, UserID: userID},
				SkipDuplicates: skip,
				ValidateOnly:   !apply,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), importOutput{
				Command:    "import " + string(e),
				DurationMS: time.Since(start).Milliseconds(),
				Result:     res,
			})
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "contact, product or customer (required)")
	cmd.Flags().StringVar(&file, "file", "", "CSV file, - reads stdin (required)")
	cmd.Flags().StringVar(&teamID, "team", "", "Team UUID (required)")
	cmd.Flags().StringVar(&userID, "user", "", "Acting user UUID")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write rows (default dry-run)")
	cmd.Flags().BoolVar(&skip, "skip-duplicates", false, "Skip rows whose key already exists")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --file: %w", err)
	}
	return raw, nil
}
