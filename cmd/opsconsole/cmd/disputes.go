package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

var disputesCmd = &cobra.Command{
	Use:   "disputes",
	Short: "List and resolve disputes",
}

var (
	disputesStatus string
	disputesPage   pageFlags

	resolution    string
	resolveStatus string
)

var disputesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List disputes",
	RunE: screenRun("disputes", func(cmd *cobra.Command, args []string, a *app) error {
		status, err := optionValue("status", disputesStatus, admin.DisputeStatusOptions)
		if err != nil {
			return err
		}
		f := admin.StatusFilter{Status: status}
		f.Page, f.PageSize = disputesPage.values()

		p, err := a.api.ListDisputes(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "Order", "Initiator", "Reason", "Status", "Updated"},
			func(d admin.Dispute) table.Row {
				return table.Row{d.ID, d.OrderID, opt(d.InitiatorPhone), opt(d.Reason), d.Status, d.UpdatedAt}
			})
	}),
}

var disputesShowCmd = &cobra.Command{
	Use:   "show <dispute-id>",
	Short: "Show a dispute with its evidence",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("disputes", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		d, err := a.api.GetDispute(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !tableOutput() {
			return printResult(cmd, d, nil, nil)
		}
		w := cmd.OutOrStdout()
		err = renderTable(w, table.Row{"Field", "Value"}, []table.Row{
			{"Dispute", d.ID},
			{"Status", d.Status},
			{"Order", fmt.Sprintf("%d (%s)", d.OrderID, opt(d.OrderStatus))},
			{"Initiator", fmt.Sprintf("%d %s", d.InitiatorID, opt(d.InitiatorPhone))},
			{"Reason", opt(d.Reason)},
			{"Resolution", opt(d.Resolution)},
			{"Created", d.CreatedAt},
			{"Updated", d.UpdatedAt},
		})
		if err != nil {
			return err
		}
		var evidence []table.Row
		for _, e := range d.Evidence {
			evidence = append(evidence, table.Row{e.ID, e.FileURL, opt(e.Note), e.CreatedAt})
		}
		return renderTable(w, table.Row{"Evidence", "File", "Note", "Created"}, evidence)
	}),
}

var disputesResolveCmd = &cobra.Command{
	Use:   "resolve <dispute-id>",
	Short: "Record a dispute resolution",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("disputes", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		req := admin.ResolveDisputeRequest{Resolution: strings.TrimSpace(resolution)}
		if req.Resolution == "" {
			return fmt.Errorf("--resolution must not be empty")
		}
		if resolveStatus != "" {
			if !admin.ValidOption(admin.ResolveStatusOptions, resolveStatus) {
				return fmt.Errorf("invalid --status %q: use one of %s", resolveStatus, optionNames(admin.ResolveStatusOptions))
			}
			req.Status = resolveStatus
		}
		resp, err := a.api.ResolveDispute(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dispute %d %s.\n", resp.ID, resp.Status)
		return nil
	}),
}

func init() {
	disputesListCmd.Flags().StringVar(&disputesStatus, "status", "", "status filter: "+optionNames(admin.DisputeStatusOptions))
	disputesPage.register(disputesListCmd)

	disputesResolveCmd.Flags().StringVar(&resolution, "resolution", "", "resolution text")
	disputesResolveCmd.Flags().StringVar(&resolveStatus, "status", "", "new status: "+optionNames(admin.ResolveStatusOptions))
	_ = disputesResolveCmd.MarkFlagRequired("resolution")

	disputesCmd.AddCommand(disputesListCmd, disputesShowCmd, disputesResolveCmd)
	rootCmd.AddCommand(disputesCmd)
}
