package main

import (
	"fmt"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/spf13/cobra"
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List recurring bills with their next due date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			bills := a.bills.Bills()
			if len(bills) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No bills registered."))
				return nil
			}
			rows := make([][]string, 0, len(bills))
			for _, b := range bills {
				rows = append(rows, []string{
					b.Name,
					formatMoney(b.Amount),
					string(b.Interval),
					service.DueDateText(b.DueDate),
					a.bills.NextDueDate(b).Format("2006-01-02"),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Name", "Amount", "Interval", "Due", "Next"}, rows))
			return nil
		})
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show bills due within the next week",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			upcoming := a.bills.Refresh()
			if len(upcoming) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Nothing due this week."))
				return nil
			}
			rows := make([][]string, 0, len(upcoming))
			for _, u := range upcoming {
				rows = append(rows, []string{u.Name, formatMoney(u.Amount), formatDays(u.DaysUntilDue)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Name", "Amount", "Due"}, rows))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(billsCmd, upcomingCmd)
}
