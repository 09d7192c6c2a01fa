package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
	"github.com/Paladinnu/paladinspalace/internal/observability"
	"github.com/Paladinnu/paladinspalace/internal/output"
)

var auditFlags struct {
	action     string
	userID     string
	entityType string
	limit      int
	cursor     string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit trail, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		f := core.AuditFilter{
			Limit:      auditFlags.limit,
			Action:     auditFlags.action,
			UserID:     auditFlags.userID,
			EntityType: auditFlags.entityType,
		}
		if auditFlags.cursor != "" {
			f.Cursor = &auditFlags.cursor
		}

		svc := listings.NewService(st, observability.CLILogger)
		page, err := svc.AuditTrail(cmd.Context(), f)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.FormatAuditEvents(page))
		if page.NextCursor != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "next cursor: %s\n", *page.NextCursor)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditFlags.action, "action", "", "filter by action (e.g. listing.create)")
	auditCmd.Flags().StringVar(&auditFlags.userID, "user", "", "filter by user ID")
	auditCmd.Flags().StringVar(&auditFlags.entityType, "entity-type", "", "filter by entity type")
	auditCmd.Flags().IntVar(&auditFlags.limit, "limit", 0, "page size (max 100)")
	auditCmd.Flags().StringVar(&auditFlags.cursor, "cursor", "", "pagination cursor from a previous page")

	rootCmd.AddCommand(auditCmd)
}
