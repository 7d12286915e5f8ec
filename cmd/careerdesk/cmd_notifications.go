package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/derive"
)

var notificationsUnreadOnly bool

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Work with notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications, newest first",
	RunE:  runNotificationsList,
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsRead,
}

func init() {
	addOutputFlag(notificationsListCmd.Flags())
	notificationsListCmd.Flags().BoolVar(&notificationsUnreadOnly, "unread", false, "Show only unread notifications")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	notifications, err := env.client.ListNotifications(ctx)
	if err != nil {
		return err
	}
	if notificationsUnreadOnly {
		notifications = derive.UnreadNotifications(notifications)
	}

	table := ui.NewSimpleTable("Notifications", []string{"ID", "", "Title", "Kind", "When"})
	for _, n := range notifications {
		marker := ""
		if !n.Read {
			marker = "●"
		}
		table.AddRow(n.ID, marker, n.Title, n.Kind, n.CreatedAt.Format("2006-01-02 15:04"))
	}
	return renderList(table, notifications)
}

func runNotificationsRead(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	n, err := env.client.MarkNotificationRead(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Marked read: %s\n", n.Title)
	return nil
}
