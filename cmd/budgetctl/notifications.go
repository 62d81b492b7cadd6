package main

import (
	"fmt"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show budget and bill notifications for the current month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			a.bills.Refresh()
			notifications := a.notifications.Recompute()
			if len(notifications) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No notifications."))
				return nil
			}
			for _, n := range notifications {
				line := n.Message
				if n.Type == domain.NotificationTypeBudget {
					line = warnStyle.Render(line)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		})
	},
}

var resetOnboardingCmd = &cobra.Command{
	Use:   "reset-onboarding",
	Short: "Show the welcome flow again on next launch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) error {
			if err := a.profile.ResetWelcome(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Onboarding reset.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd, resetOnboardingCmd)
}
