package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/service"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Platform settings, merchant approvals and merchant templates",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show platform settings",
	RunE: screenRun("ops", func(cmd *cobra.Command, args []string, a *app) error {
		s, err := service.NewSettingsService(a.api, a.logger).Load(cmd.Context())
		if err != nil {
			return err
		}
		return printSettings(cmd, s)
	}),
}

// settingFlags maps flag names to the Settings field they edit.
var settingFlags = []struct {
	name  string
	usage string
	field func(*service.Settings) *string
}{
	{"auto-cancel-hours", "hours before unpaid orders are cancelled", func(s *service.Settings) *string { return &s.AutoCancelHours }},
	{"refund-penalty-rate", "refund penalty rate, e.g. 0.1", func(s *service.Settings) *string { return &s.RefundPenaltyRate }},
	{"dispute-priority", "low, medium or high", func(s *service.Settings) *string { return &s.DisputePriority }},
	{"demand-tags", "comma separated demand tags", func(s *service.Settings) *string { return &s.DemandTags }},
	{"photographer-tags", "comma separated photographer tags", func(s *service.Settings) *string { return &s.PhotographerTags }},
	{"recommend-slots", "recommendation slots as JSON", func(s *service.Settings) *string { return &s.RecommendSlots }},
	{"activity-banners", "activity banners as JSON", func(s *service.Settings) *string { return &s.ActivityBanners }},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change platform settings",
	Long: `Change platform settings. Settings without a flag keep their current value.

Example:
  opsconsole ops settings set --auto-cancel-hours 24 --demand-tags "wedding,portrait"`,
	RunE: screenRun("ops", func(cmd *cobra.Command, args []string, a *app) error {
		svc := service.NewSettingsService(a.api, a.logger)
		current, err := svc.Load(cmd.Context())
		if err != nil {
			return err
		}
		changed := 0
		for _, f := range settingFlags {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			v, _ := cmd.Flags().GetString(f.name)
			*f.field(&current) = v
			changed++
		}
		if changed == 0 {
			return fmt.Errorf("nothing to change: pass at least one setting flag")
		}
		if err := svc.Save(cmd.Context(), current); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
		return nil
	}),
}

func printSettings(cmd *cobra.Command, s service.Settings) error {
	return printResult(cmd, s, table.Row{"Setting", "Value"}, func() []table.Row {
		rows := make([]table.Row, 0, len(settingFlags))
		for _, f := range settingFlags {
			rows = append(rows, table.Row{f.name, *f.field(&s)})
		}
		return rows
	})
}

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Merchant demand approvals",
}

var (
	approvalsStatus string
	approvalsPage   pageFlags
)

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List merchant approvals",
	RunE: screenRun("ops", func(cmd *cobra.Command, args []string, a *app) error {
		status, err := optionValue("status", approvalsStatus, admin.ReviewStatusOptions)
		if err != nil {
			return err
		}
		f := admin.StatusFilter{Status: status}
		f.Page, f.PageSize = approvalsPage.values()

		p, err := a.api.ListMerchantApprovals(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "Merchant", "Demand", "Status", "Comment", "Created"},
			func(m admin.MerchantApproval) table.Row {
				return table.Row{m.ID, m.MerchantName, m.DemandID, m.Status, opt(m.Comment), m.CreatedAt}
			})
	}),
}

var approvalsReviewCmd = &cobra.Command{
	Use:   "review <approval-id>",
	Short: "Approve or reject a merchant demand",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("ops", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status, err := reviewOutcome(reviewStatus)
		if err != nil {
			return err
		}
		req := admin.ReviewRequest{Status: status, Comment: strings.TrimSpace(reviewComment)}
		resp, err := a.api.ReviewMerchantApproval(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Approval %d %s.\n", resp.ID, resp.Status)
		return nil
	}),
}

var (
	templatesMerchant int64
	templatesPage     pageFlags
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List merchant order templates",
	RunE: screenRun("ops", func(cmd *cobra.Command, args []string, a *app) error {
		if templatesMerchant < 0 {
			return fmt.Errorf("--merchant-id must be positive")
		}
		f := admin.TemplateFilter{MerchantID: templatesMerchant}
		f.Page, f.PageSize = templatesPage.values()

		p, err := a.api.ListMerchantTemplates(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "Merchant", "Name", "Items", "Created"},
			func(t admin.MerchantTemplate) table.Row {
				items := make([]string, 0, len(t.Items))
				for _, it := range t.Items {
					items = append(items, fmt.Sprintf("%s x%d (%s)", it.Name, it.Quantity, money(it.Price)))
				}
				return table.Row{t.ID, t.MerchantName, t.Name, strings.Join(items, "; "), t.CreatedAt}
			})
	}),
}

func init() {
	for _, f := range settingFlags {
		settingsSetCmd.Flags().String(f.name, "", f.usage)
	}
	settingsCmd.AddCommand(settingsSetCmd)

	approvalsListCmd.Flags().StringVar(&approvalsStatus, "status", "", "status filter: "+optionNames(admin.ReviewStatusOptions))
	approvalsPage.register(approvalsListCmd)
	approvalsReviewCmd.Flags().StringVar(&reviewStatus, "status", "", "approved or rejected")
	approvalsReviewCmd.Flags().StringVar(&reviewComment, "comment", "", "comment shown to the merchant")
	_ = approvalsReviewCmd.MarkFlagRequired("status")
	approvalsCmd.AddCommand(approvalsListCmd, approvalsReviewCmd)

	templatesCmd.Flags().Int64Var(&templatesMerchant, "merchant-id", 0, "only this merchant")
	templatesPage.register(templatesCmd)

	opsCmd.AddCommand(settingsCmd, approvalsCmd, templatesCmd)
	rootCmd.AddCommand(opsCmd)
}
