package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Review photographer portfolios",
}

var (
	contentStatus       string
	contentPhotographer int64
	contentPage         pageFlags
)

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List portfolios awaiting review",
	RunE: screenRun("content", func(cmd *cobra.Command, args []string, a *app) error {
		status, err := optionValue("status", contentStatus, admin.ReviewStatusOptions)
		if err != nil {
			return err
		}
		if contentPhotographer < 0 {
			return fmt.Errorf("--photographer-id must be positive")
		}
		f := admin.PortfolioFilter{Status: status, PhotographerID: contentPhotographer}
		f.Page, f.PageSize = contentPage.values()

		p, err := a.api.ListPortfolios(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "Title", "Photographer", "Status", "Updated"},
			func(it admin.Portfolio) table.Row {
				return table.Row{it.ID, it.Title, fmt.Sprintf("%d %s", it.PhotographerID, opt(it.PhotographerPhone)), it.Status, it.UpdatedAt}
			})
	}),
}

var contentReviewCmd = &cobra.Command{
	Use:   "review <portfolio-id>",
	Short: "Approve or reject a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("content", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status, err := reviewOutcome(reviewStatus)
		if err != nil {
			return err
		}
		req := admin.ReviewRequest{Status: status, Comment: strings.TrimSpace(reviewComment)}
		resp, err := a.api.ReviewPortfolio(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Portfolio %d %s.\n", resp.ID, resp.Status)
		return nil
	}),
}

func init() {
	contentListCmd.Flags().StringVar(&contentStatus, "status", "", "status filter: "+optionNames(admin.ReviewStatusOptions))
	contentListCmd.Flags().Int64Var(&contentPhotographer, "photographer-id", 0, "only this photographer")
	contentPage.register(contentListCmd)

	contentReviewCmd.Flags().StringVar(&reviewStatus, "status", "", "approved or rejected")
	contentReviewCmd.Flags().StringVar(&reviewComment, "comment", "", "comment shown to the photographer")
	_ = contentReviewCmd.MarkFlagRequired("status")

	contentCmd.AddCommand(contentListCmd, contentReviewCmd)
	rootCmd.AddCommand(contentCmd)
}
