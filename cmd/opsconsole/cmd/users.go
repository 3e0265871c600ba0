package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users and review photographer applications",
}

var (
	usersKeyword string
	usersRole    string
	usersStatus  string
	usersPage    pageFlags

	reviewStatus  string
	reviewComment string
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: screenRun("users", func(cmd *cobra.Command, args []string, a *app) error {
		f := admin.UserFilter{Keyword: usersKeyword}
		var err error
		if f.Role, err = optionValue("role", usersRole, admin.UserRoleOptions); err != nil {
			return err
		}
		if f.Status, err = optionValue("status", usersStatus, admin.UserStatusOptions); err != nil {
			return err
		}
		f.Page, f.PageSize = usersPage.values()

		p, err := a.api.ListUsers(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printPage(cmd, p, table.Row{"ID", "Phone", "Nickname", "Role", "Status", "Photographer", "Updated"},
			func(u admin.User) table.Row {
				photographer := "-"
				if u.PhotographerID != nil {
					photographer = fmt.Sprintf("%d (%s)", *u.PhotographerID, opt(u.PhotographerStatus))
				}
				return table.Row{u.ID, u.Phone, opt(u.Nickname), u.Role, u.Status, photographer, u.UpdatedAt}
			})
	}),
}

var usersReviewCmd = &cobra.Command{
	Use:   "review <photographer-id>",
	Short: "Approve or reject a photographer application",
	Args:  cobra.ExactArgs(1),
	RunE: screenRun("users", func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status, err := reviewOutcome(reviewStatus)
		if err != nil {
			return err
		}
		resp, err := a.api.ReviewPhotographer(cmd.Context(), id, admin.ReviewRequest{Status: status, Comment: strings.TrimSpace(reviewComment)})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Photographer %d %s.\n", resp.ID, resp.Status)
		return nil
	}),
}

func init() {
	usersListCmd.Flags().StringVar(&usersKeyword, "keyword", "", "phone or nickname")
	usersListCmd.Flags().StringVar(&usersRole, "role", "", "role filter: "+optionNames(admin.UserRoleOptions))
	usersListCmd.Flags().StringVar(&usersStatus, "status", "", "status filter: "+optionNames(admin.UserStatusOptions))
	usersPage.register(usersListCmd)

	usersReviewCmd.Flags().StringVar(&reviewStatus, "status", "", "approved or rejected")
	usersReviewCmd.Flags().StringVar(&reviewComment, "comment", "", "comment shown to the photographer")
	_ = usersReviewCmd.MarkFlagRequired("status")

	usersCmd.AddCommand(usersListCmd, usersReviewCmd)
	rootCmd.AddCommand(usersCmd)
}
