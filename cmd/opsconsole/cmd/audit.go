package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read and append the audit log",
}

var (
	auditAction string
	auditPage   pageFlags

	auditTargetType string
	auditTargetID   int64
	auditDetail     string
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries",
	RunE: screenRun("audit", func(cmd *cobra.Command, args []string, a *app) error {
		f := admin.AuditFilter{Action: strings.TrimSpace(auditAction)}
		f.Page, f.PageSize = auditPage.values()

		p, err := a.api.ListAudits(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"Level", "Action", "Target", "Operator", "Time"},
			func(e admin.AuditEntry) table.Row {
				operator := opt(e.AdminPhone)
				if e.AdminPhone == nil {
					operator = fmt.Sprint(e.AdminID)
				}
				return table.Row{admin.AuditLevel(e.Action), e.Action, e.AuditTarget(), operator, e.CreatedAt}
			})
	}),
}

var auditCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a manual audit entry",
	Long: `Record a manual audit entry. --detail, when given, must be a JSON document.

Example:
  opsconsole audit create --action note --target-type order --target-id 11 --detail '{"why":"manual check"}'`,
	RunE: screenRun("audit", func(cmd *cobra.Command, args []string, a *app) error {
		req := admin.CreateAuditRequest{
			Action:     strings.TrimSpace(auditAction),
			TargetType: strings.TrimSpace(auditTargetType),
		}
		if req.Action == "" {
			return fmt.Errorf("--action must not be empty")
		}
		if cmd.Flags().Changed("target-id") {
			if auditTargetID <= 0 {
				return fmt.Errorf("--target-id must be positive")
			}
			id := auditTargetID
			req.TargetID = &id
		}
		if d := strings.TrimSpace(auditDetail); d != "" {
			if !json.Valid([]byte(d)) {
				return fmt.Errorf("--detail must be valid JSON")
			}
			req.Detail = json.RawMessage(d)
		}
		if err := a.api.CreateAudit(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Audit entry recorded.")
		return nil
	}),
}

func init() {
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "only this action")
	auditPage.register(auditListCmd)

	auditCreateCmd.Flags().StringVar(&auditAction, "action", "", "action name")
	auditCreateCmd.Flags().StringVar(&auditTargetType, "target-type", "", "target type, e.g. order")
	auditCreateCmd.Flags().Int64Var(&auditTargetID, "target-id", 0, "target id")
	auditCreateCmd.Flags().StringVar(&auditDetail, "detail", "", "JSON detail")
	_ = auditCreateCmd.MarkFlagRequired("action")

	auditCmd.AddCommand(auditListCmd, auditCreateCmd)
	rootCmd.AddCommand(auditCmd)
}
