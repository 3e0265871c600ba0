package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// exportLimit caps the rows of one export, as in the browser console.
const exportLimit = 500

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List, inspect, freeze and export orders",
}

var (
	ordersStatus string
	ordersPage   pageFlags

	freezeReason string

	exportStart string
	exportEnd   string
	exportOut   string
)

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: screenRun("orders", func(cmd *cobra.Command, args []string, a *app) error {
		status, err := optionValue("status", ordersStatus, admin.OrderStatusOptions)
		if err != nil {
			return err
		}
		f := admin.OrderFilter{Status: status}
		f.Page, f.PageSize = ordersPage.values()

		p, err := a.api.ListOrders(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "User", "Photographer", "Amount", "Pay", "Status", "Created"},
			func(o admin.Order) table.Row {
				return table.Row{o.ID, opt(o.UserPhone), opt(o.PhotographerPhone), money(o.TotalAmount), o.PayType, o.Status, o.CreatedAt}
			})
	}),
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show an order with payments, refunds and deliveries",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("orders", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		o, err := a.api.GetOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !tableOutput() {
			return printResult(cmd, o, nil, nil)
		}

		w := cmd.OutOrStdout()
		err = renderTable(w, table.Row{"Field", "Value"}, []table.Row{
			{"Order", o.ID},
			{"Status", o.Status},
			{"User", fmt.Sprintf("%d %s", o.UserID, opt(o.UserPhone))},
			{"Photographer", fmt.Sprintf("%s %s", opt(o.PhotographerID), opt(o.PhotographerPhone))},
			{"Pay type", o.PayType},
			{"Total", money(o.TotalAmount)},
			{"Deposit", money(o.DepositAmount)},
			{"Service fee", money(o.ServiceFee)},
			{"Schedule", opt(o.ScheduleStart) + " - " + opt(o.ScheduleEnd)},
			{"Created", o.CreatedAt},
			{"Updated", o.UpdatedAt},
		})
		if err != nil {
			return err
		}

		var payments []table.Row
		for _, p := range o.Payments {
			payments = append(payments, table.Row{p.ID, money(p.Amount), p.PayChannel, p.Status, opt(p.PaidAt)})
		}
		if err := renderTable(w, table.Row{"Payment", "Amount", "Channel", "Status", "Paid"}, payments); err != nil {
			return err
		}
		var refunds []table.Row
		for _, r := range o.Refunds {
			refunds = append(refunds, table.Row{r.ID, money(r.Amount), r.Status, opt(r.Reason), r.CreatedAt})
		}
		if err := renderTable(w, table.Row{"Refund", "Amount", "Status", "Reason", "Created"}, refunds); err != nil {
			return err
		}
		var deliveries []table.Row
		for _, d := range o.Deliveries {
			deliveries = append(deliveries, table.Row{d.ID, d.Status, opt(d.SubmittedAt), opt(d.AcceptedAt), len(d.Items)})
		}
		return renderTable(w, table.Row{"Delivery", "Status", "Submitted", "Accepted", "Files"}, deliveries)
	}),
}

var ordersFreezeCmd = &cobra.Command{
	Use:   "freeze <order-id>",
	Short: "Freeze an order",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("orders", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		resp, err := a.api.FreezeOrder(cmd.Context(), id, strings.TrimSpace(freezeReason))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %d %s.\n", resp.ID, resp.Status)
		return nil
	}),
}

var ordersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export orders as CSV",
	Long: `Export up to 500 orders as CSV. Dates are YYYY-MM-DD and must be given
together. The file defaults to orders_report_<today>.csv; use --out - for stdout.`,
	RunE: screenRun("orders", runExport),
}

func runExport(cmd *cobra.Command, args []string, a *app) error {
	status, err := optionValue("status", ordersStatus, admin.OrderStatusOptions)
	if err != nil {
		return err
	}
	f := admin.ReportFilter{Status: status, Limit: exportLimit, Format: "csv"}
	if exportStart != "" || exportEnd != "" {
		if !validDate(exportStart) || !validDate(exportEnd) || exportEnd < exportStart {
			return fmt.Errorf("enter --start and --end as YYYY-MM-DD with start before end")
		}
		f.StartDate, f.EndDate = exportStart, exportEnd
	}

	report, err := a.api.OrdersReport(cmd.Context(), f)
	if err != nil {
		return err
	}
	if report.CSV == nil || *report.CSV == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to export.")
		return nil
	}

	if exportOut == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), *report.CSV)
		return err
	}
	path := exportOut
	if path == "" {
		path = fmt.Sprintf("orders_report_%s.csv", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(path, []byte(*report.CSV), 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s.\n", report.Total, path)
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func init() {
	ordersListCmd.Flags().StringVar(&ordersStatus, "status", "", "status filter: "+optionNames(admin.OrderStatusOptions))
	ordersPage.register(ordersListCmd)

	ordersFreezeCmd.Flags().StringVar(&freezeReason, "reason", "", "reason recorded with the freeze")

	ordersExportCmd.Flags().StringVar(&ordersStatus, "status", "", "status filter")
	ordersExportCmd.Flags().StringVar(&exportStart, "start", "", "first day, YYYY-MM-DD")
	ordersExportCmd.Flags().StringVar(&exportEnd, "end", "", "last day, YYYY-MM-DD")
	ordersExportCmd.Flags().StringVar(&exportOut, "out", "", "output file, - for stdout")

	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersFreezeCmd, ordersExportCmd)
	rootCmd.AddCommand(ordersCmd)
}
