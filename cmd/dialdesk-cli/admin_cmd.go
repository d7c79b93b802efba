package main

import (
	"fmt"
	"time"

	"dialdesk/internal/core/phone"
	"dialdesk/internal/platform/config"
	"dialdesk/internal/services/api/authn"
	"dialdesk/internal/services/bulk/audit"
	"dialdesk/internal/services/bulk/domain"
	bulkrepo "dialdesk/internal/services/bulk/repo"
	bulksvc "dialdesk/internal/services/bulk/service"

	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var entity string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the CSV import template of an entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := domain.ParseEntity(entity)
			if err != nil {
				return err
			}
			t, err := bulksvc.TemplateFor(domain.NewSchemas(phone.Normalizer{}), e)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(t.Content)
			return err
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "contact, product or customer (required)")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID string
		teamID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with CORE_API_AUTH_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := authn.FromConfig(config.New())
			if err != nil {
				return err
			}
			tok, err := s.Sign(userID, teamID, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User UUID (required)")
	cmd.Flags().StringVar(&teamID, "team", "", "Team UUID (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", authn.DefaultTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the bulk tables to postgres and bulk_runs to clickhouse when enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			if err := bulkrepo.Migrate(cmd.Context(), st.PG); err != nil {
				return err
			}
			if err := audit.Migrate(cmd.Context(), st.CH); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return err
		},
	}
}
