package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
)

var (
	recruiterName     string
	recruiterCompany  string
	recruiterEmail    string
	recruiterLinkedIn string
)

var recruitersCmd = &cobra.Command{
	Use:   "recruiters",
	Short: "Work with tracked recruiters",
}

var recruitersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked recruiters",
	RunE:  runRecruitersList,
}

var recruitersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recruiter relationship",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecruitersShow,
}

var recruitersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new recruiter",
	Long: `Track a recruiter relationship.

Example:
  careerdesk recruiters add --name "Dana" --company "Acme" --email dana@acme.io`,
	RunE: runRecruitersAdd,
}

var recruitersEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a tracked recruiter",
	Long: `Update a recruiter relationship. Flags left unset keep their
current value.

Example:
  careerdesk recruiters edit rec-1 --company "Acme Corp"`,
	Args: cobra.ExactArgs(1),
	RunE: runRecruitersEdit,
}

var recruitersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop tracking a recruiter",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecruitersRemove,
}

func init() {
	addOutputFlag(recruitersListCmd.Flags())

	recruitersAddCmd.Flags().StringVar(&recruiterName, "name", "", "Recruiter name (required)")
	recruitersAddCmd.Flags().StringVar(&recruiterCompany, "company", "", "Company (required)")
	recruitersAddCmd.Flags().StringVar(&recruiterEmail, "email", "", "Email address")
	recruitersAddCmd.Flags().StringVar(&recruiterLinkedIn, "linkedin", "", "LinkedIn profile URL")
	recruitersAddCmd.MarkFlagRequired("name")
	recruitersAddCmd.MarkFlagRequired("company")

	recruitersEditCmd.Flags().StringVar(&recruiterName, "name", "", "Recruiter name")
	recruitersEditCmd.Flags().StringVar(&recruiterCompany, "company", "", "Company")
	recruitersEditCmd.Flags().StringVar(&recruiterEmail, "email", "", "Email address")
	recruitersEditCmd.Flags().StringVar(&recruiterLinkedIn, "linkedin", "", "LinkedIn profile URL")

	recruitersCmd.AddCommand(recruitersListCmd)
	recruitersCmd.AddCommand(recruitersShowCmd)
	recruitersCmd.AddCommand(recruitersAddCmd)
	recruitersCmd.AddCommand(recruitersEditCmd)
	recruitersCmd.AddCommand(recruitersRemoveCmd)
}

func runRecruitersList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	recruiters, err := env.client.ListRecruiters(ctx)
	if err != nil {
		return err
	}

	table := ui.NewSimpleTable("Recruiters", []string{"ID", "Name", "Company", "Email", "Last contact"})
	for _, r := range recruiters {
		last := "—"
		if r.LastContactAt != nil {
			last = r.LastContactAt.Format("2006-01-02")
		}
		table.AddRow(r.ID, r.Name, r.Company, orDash(r.Email), last)
	}
	return renderList(table, recruiters)
}

func runRecruitersShow(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	r, err := env.client.GetRecruiter(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s at %s\n", r.Name, r.Company)
	fmt.Printf("Email:        %s\n", orDash(r.Email))
	fmt.Printf("LinkedIn:     %s\n", orDash(r.LinkedInURL))
	fmt.Printf("Relationship: %s\n", orDash(r.Relationship))
	if r.LastContactAt != nil {
		fmt.Printf("Last contact: %s\n", r.LastContactAt.Format("2006-01-02"))
	} else {
		fmt.Println("Last contact: never")
	}
	return nil
}

func runRecruitersAdd(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	r, err := env.client.CreateRecruiter(ctx, api.RecruiterDraft{
		Name:        recruiterName,
		Company:     recruiterCompany,
		Email:       recruiterEmail,
		LinkedInURL: recruiterLinkedIn,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Tracking %s at %s (%s).\n", r.Name, r.Company, r.ID)
	return nil
}

func runRecruitersEdit(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	id := args[0]
	current, err := env.client.GetRecruiter(ctx, id)
	if err != nil {
		return err
	}

	// Unset flags keep the stored value.
	draft := api.RecruiterDraft{
		Name:        current.Name,
		Company:     current.Company,
		Email:       current.Email,
		LinkedInURL: current.LinkedInURL,
	}
	if cmd.Flags().Changed("name") {
		draft.Name = recruiterName
	}
	if cmd.Flags().Changed("company") {
		draft.Company = recruiterCompany
	}
	if cmd.Flags().Changed("email") {
		draft.Email = recruiterEmail
	}
	if cmd.Flags().Changed("linkedin") {
		draft.LinkedInURL = recruiterLinkedIn
	}

	r, err := env.client.UpdateRecruiter(ctx, id, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s at %s.\n", r.Name, r.Company)
	return nil
}

func runRecruitersRemove(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	id := args[0]
	if err := env.client.DeleteRecruiter(ctx, id); err != nil {
		if api.IsNotFound(err) {
			fmt.Printf("Recruiter %s was already gone.\n", id)
			return nil
		}
		return err
	}
	fmt.Printf("Stopped tracking recruiter %s.\n", id)
	return nil
}
