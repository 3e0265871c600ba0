package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/service"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show platform metrics, trends and the latest orders",
	RunE: screenRun("dashboard", func(cmd *cobra.Command, args []string, a *app) error {
		d, err := service.NewDashboardService(a.api).Load(cmd.Context())
		if err != nil {
			return err
		}
		if !tableOutput() {
			return printResult(cmd, d, nil, nil)
		}

		w := cmd.OutOrStdout()
		m := d.Metrics
		if m == nil {
			m = &admin.Metrics{PeriodDays: service.DashboardDays}
		}
		err = renderTable(w, table.Row{"Metric", "Value"}, []table.Row{
			{"Users", m.UsersTotal},
			{"Orders today", m.OrdersToday},
			{fmt.Sprintf("Orders (%dd)", m.PeriodDays), m.OrdersPeriod},
			{"Revenue today", money(m.RevenueToday)},
			{fmt.Sprintf("Revenue (%dd)", m.PeriodDays), money(m.RevenuePeriod)},
			{"Open disputes", m.DisputesOpen},
			{"Pending photographers", m.PendingPhotographers},
			{"Pending merchant approvals", m.PendingMerchantApprovals},
		})
		if err != nil {
			return err
		}

		var trend []table.Row
		if d.Trends != nil {
			for _, p := range d.Trends.Items {
				trend = append(trend, table.Row{p.Date, p.Orders, p.Disputes, money(p.Revenue)})
			}
		}
		if err := renderTable(w, table.Row{"Date", "Orders", "Disputes", "Revenue"}, trend); err != nil {
			return err
		}

		latest := make([]table.Row, 0, len(d.LatestOrders))
		for _, o := range d.LatestOrders {
			latest = append(latest, table.Row{o.ID, opt(o.UserPhone), money(o.TotalAmount), o.Status, o.CreatedAt})
		}
		return renderTable(w, table.Row{"Order", "User", "Amount", "Status", "Created"}, latest)
	}),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
