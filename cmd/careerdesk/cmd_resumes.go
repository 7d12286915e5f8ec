package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
	"careerdesk/internal/derive"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Work with uploaded résumés",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List résumés ranked by ATS score",
	RunE:  runResumesList,
}

var resumesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one résumé with its improvement suggestions",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesShow,
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a résumé",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDelete,
}

var resumesRenameTitle string

var resumesRenameCmd = &cobra.Command{
	Use:   "rename <id>",
	Short: "Rename a résumé",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesRename,
}

var resumesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show résumé aggregates",
	RunE:  runResumesStats,
}

func init() {
	addOutputFlag(resumesListCmd.Flags())
	resumesRenameCmd.Flags().StringVar(&resumesRenameTitle, "title", "", "New title (required)")
	resumesRenameCmd.MarkFlagRequired("title")

	resumesCmd.AddCommand(resumesListCmd)
	resumesCmd.AddCommand(resumesShowCmd)
	resumesCmd.AddCommand(resumesDeleteCmd)
	resumesCmd.AddCommand(resumesRenameCmd)
	resumesCmd.AddCommand(resumesStatsCmd)
}

func runResumesList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	resumes, err := env.client.ListResumes(ctx)
	if err != nil {
		return err
	}
	resumes = derive.SortResumesByScore(resumes)

	table := ui.NewSimpleTable("Résumés", []string{"ID", "Title", "ATS", "Coverage", "Updated"})
	for _, r := range resumes {
		matched := 0
		for _, s := range r.Skills {
			if s.Matched {
				matched++
			}
		}
		table.AddRow(r.ID, r.Title, strconv.Itoa(r.ATSScore),
			fmt.Sprintf("%d%%", derive.Coverage(matched, len(r.Skills))),
			r.UpdatedAt.Format("2006-01-02"))
	}
	return renderList(table, resumes)
}

func runResumesShow(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	detail, err := env.client.GetResumeDetail(ctx, args[0])
	if err != nil {
		return err
	}

	r := detail.Resume
	fmt.Printf("%s (%s)\n", r.Title, r.FileName)
	fmt.Printf("ATS score: %d\n", r.ATSScore)
	fmt.Printf("Updated:   %s\n", r.UpdatedAt.Format("2006-01-02 15:04"))

	if len(r.Skills) > 0 {
		fmt.Println("\nSkills:")
		for _, s := range r.Skills {
			marker := " "
			if s.Matched {
				marker = "✓"
			}
			fmt.Printf("  %s %s (%s)\n", marker, s.Name, s.Category)
		}
	}

	if len(detail.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for i, s := range detail.Suggestions {
			fmt.Printf("  %d. [%s] %s\n", i+1, s.Section, s.Text)
		}
	}
	return nil
}

func runResumesDelete(cmd *cobra.Command, args []string) error {
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
	logger.Info("Deleting résumé", zap.String("id", id))
	if err := env.client.DeleteResume(ctx, id); err != nil {
		if api.IsNotFound(err) {
			fmt.Printf("Résumé %s was already gone.\n", id)
			return nil
		}
		return err
	}
	fmt.Printf("Deleted résumé %s.\n", id)
	return nil
}

func runResumesRename(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	r, err := env.client.UpdateResume(ctx, args[0], api.ResumeUpdate{Title: resumesRenameTitle})
	if err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %q.\n", r.ID, r.Title)
	return nil
}

func runResumesStats(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	stats, err := env.client.GetResumeStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Résumés:        %d\n", stats.Count)
	fmt.Printf("Average ATS:    %d\n", stats.AvgATSScore)
	fmt.Printf("Best ATS:       %d\n", stats.BestATSScore)
	return nil
}
