package main

import (
	"fmt"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagMonth string

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List every month with stored data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			current := a.ledger.CurrentMonth()
			rows := [][]string{}
			for _, key := range a.ledger.Months() {
				record, _ := a.ledger.MonthData(key)
				marker := ""
				if key == current {
					marker = "current"
				}
				rows = append(rows, []string{key.String(), key.Label(), formatMoney(record.Budget), formatMoney(record.TotalExpenses()), marker})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Month", "Label", "Budget", "Spent", ""}, rows))
			return nil
		})
	},
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the overview of one month",
	Long:  "Show the overview of one month. Only stored months can be shown; nothing is written.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			key := a.ledger.CurrentMonth()
			if flagMonth != "" {
				parsed, err := domain.ParseMonthKey(flagMonth)
				if err != nil {
					return err
				}
				key = parsed
			}
			o, ok := a.dashboard.MonthOverviewOf(key)
			if !ok {
				return fmt.Errorf("no data stored for %s", key)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTitle(o.Label))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"", ""}, [][]string{
				{"Budget", formatMoney(o.Budget)},
				{"Spent", formatMoney(o.TotalExpenses)},
				{"Remaining", formatMoney(o.RemainingBudget)},
				{"Savings", fmt.Sprintf("%s (goal %s, %d%%)", formatMoney(o.Savings), formatMoney(o.SavingsGoal), o.SavingsGoalProgress)},
				{"Unallocated", formatMoney(o.UnallocatedBudget)},
			}))
			fmt.Fprintln(cmd.OutOrStdout(), )

			categories := make([][]string, 0, len(o.Categories))
			for _, c := range o.Categories {
				categories = append(categories, []string{string(c.Category), formatMoney(c.Spent), formatMoney(c.Budget), fmt.Sprintf("%d%%", c.Percentage)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Category", "Spent", "Budget", "Used"}, categories))

			if len(o.Expenses) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), )
				expenses := make([][]string, 0, len(o.Expenses))
				for _, e := range o.Expenses {
					expenses = append(expenses, []string{e.Date, e.Name, string(e.Category), formatMoney(e.Amount)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Date", "Name", "Category", "Amount"}, expenses))
			}
			if note := readOnlyNote(o.Month, a.ledger.CurrentMonth()); note != "" {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("\n"+note))
			}
			return nil
		})
	},
}

var setBudgetCmd = &cobra.Command{
	Use:   "set-budget <amount>",
	Short: "Set the budget of the current month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		return withApp(cmd, func(a *app) error {
			if err := a.ledger.UpdateBudget(amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", a.ledger.SelectedMonth().Label(), formatMoney(amount))
			return nil
		})
	},
}

// readOnlyNote explains why a month's expenses cannot be edited
func readOnlyNote(key, current domain.MonthKey) string {
	switch {
	case key < current:
		return "Past month, read only"
	case key > current:
		return "Future month, read only"
	default:
		return ""
	}
}

func init() {
	monthCmd.Flags().StringVarP(&flagMonth, "month", "m", "", "Month to show as YYYY-MM, defaults to the current month")
	rootCmd.AddCommand(monthsCmd, monthCmd, setBudgetCmd)
}
