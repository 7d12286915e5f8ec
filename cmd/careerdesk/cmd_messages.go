package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
)

var (
	messagesStatus    string
	messagesRecruiter string
	messagesSearch    string

	sendRecruiterID string
	sendType        string
	sendSubject     string
	sendBody        string
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Work with recruiter outreach messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outreach messages",
	RunE:  runMessagesList,
}

var messagesSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Create an outreach message draft",
	Long: `Create a message draft addressed to a recruiter. Messages are
created as drafts and promoted with 'messages mark-sent' once actually
delivered.

Example:
  careerdesk messages send --recruiter rec_42 --type intro \
    --subject "Hello" --body "Saw your posting..."`,
	RunE: runMessagesSend,
}

var messagesMarkSentCmd = &cobra.Command{
	Use:   "mark-sent <id>",
	Short: "Mark a message as sent",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesMarkSent,
}

var messagesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one message in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesShow,
}

var messagesScoreCmd = &cobra.Command{
	Use:   "score <id>",
	Short: "Score a message's quality",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesScore,
}

func init() {
	addOutputFlag(messagesListCmd.Flags())
	messagesListCmd.Flags().StringVar(&messagesStatus, "status", "", "Filter: draft, ready, sent, or responded")
	messagesListCmd.Flags().StringVar(&messagesRecruiter, "recruiter", "", "Filter by recruiter ID")
	messagesListCmd.Flags().StringVar(&messagesSearch, "search", "", "Server-side search query")

	messagesSendCmd.Flags().StringVar(&sendRecruiterID, "recruiter", "", "Recruiter ID (required)")
	messagesSendCmd.Flags().StringVar(&sendType, "type", "intro", "Message type: intro, follow_up, thank_you, or custom")
	messagesSendCmd.Flags().StringVar(&sendSubject, "subject", "", "Subject line (required)")
	messagesSendCmd.Flags().StringVar(&sendBody, "body", "", "Message body (required)")
	messagesSendCmd.MarkFlagRequired("recruiter")
	messagesSendCmd.MarkFlagRequired("subject")
	messagesSendCmd.MarkFlagRequired("body")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesSendCmd)
	messagesCmd.AddCommand(messagesMarkSentCmd)
	messagesCmd.AddCommand(messagesShowCmd)
	messagesCmd.AddCommand(messagesScoreCmd)
}

func runMessagesList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	messages, err := env.client.ListMessages(ctx, api.MessageFilter{
		Status:      messagesStatus,
		RecruiterID: messagesRecruiter,
		Search:      messagesSearch,
	})
	if err != nil {
		return err
	}

	table := ui.NewSimpleTable("Messages", []string{"ID", "Subject", "Recruiter", "Status", "Score"})
	for _, m := range messages {
		score := "—"
		if m.Score != nil {
			score = strconv.Itoa(*m.Score)
		}
		table.AddRow(m.ID, m.Subject, orDash(m.RecruiterName), m.Status, score)
	}
	return renderList(table, messages)
}

func runMessagesSend(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	logger.Info("Creating message",
		zap.String("recruiter", sendRecruiterID),
		zap.String("type", sendType))

	msg, err := env.client.CreateMessage(ctx, api.MessageDraft{
		RecruiterID: sendRecruiterID,
		MessageType: sendType,
		Subject:     sendSubject,
		Body:        sendBody,
	})
	if err != nil {
		return describeValidation(err)
	}

	fmt.Printf("Created %s message %s (status: %s).\n", msg.MessageType, msg.ID, msg.Status)
	return nil
}

func runMessagesMarkSent(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	msg, err := env.client.MarkMessageSent(ctx, args[0])
	if err != nil {
		return err
	}

	when := ""
	if msg.SentAt != nil {
		when = " at " + msg.SentAt.Format("2006-01-02 15:04")
	}
	fmt.Printf("Message %s marked sent%s.\n", msg.ID, when)
	return nil
}

// describeValidation turns field-level validation failures into usable
// CLI output instead of one opaque line.
func describeValidation(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.KindValidation || len(apiErr.Fields) == 0 {
		return err
	}
	fmt.Fprintln(os.Stderr, "Invalid message:")
	for field, msgs := range apiErr.Fields {
		for _, m := range msgs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, m)
		}
	}
	return fmt.Errorf("message rejected")
}

func runMessagesShow(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	m, err := env.client.GetMessage(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Subject:   %s\n", m.Subject)
	fmt.Printf("Recruiter: %s\n", orDash(m.RecruiterName))
	fmt.Printf("Type:      %s\n", m.MessageType)
	fmt.Printf("Status:    %s\n", m.Status)
	if m.SentAt != nil {
		fmt.Printf("Sent:      %s\n", m.SentAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%s\n", m.Body)
	return nil
}

func runMessagesScore(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	score, err := env.client.ScoreMessage(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Score: %d (%s)\n", score.Score, score.Verdict)
	for _, tip := range score.Tips {
		fmt.Printf("  - %s\n", tip)
	}
	return nil
}
