// Package main provides the careerdesk CLI entry point.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"careerdesk/cmd/careerdesk/dashboard"
	"careerdesk/internal/logging"
	"careerdesk/internal/store"
)

var (
	// Global flags
	verbose   bool
	configDir string
	timeout   time.Duration

	// Logger for direct-action subcommands. The dashboard uses the
	// category file logger instead; a terminal logger would corrupt
	// the alternate screen.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "careerdesk",
	Short: "careerdesk - terminal client for your job search",
	Long: `careerdesk is a terminal client for the careerdesk career-management
service: résumé ATS scores, recruiter outreach, notifications, and AI
coaching, all in one dashboard.

Run without arguments to open the interactive dashboard. Direct-action
subcommands (login, resumes, messages, ...) are available for scripting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for the dashboard (it has its own UI)
		if cmd.Use == "careerdesk" && cmd.CalledAs() == "careerdesk" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: ~/.careerdesk)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout override")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(resumesCmd)
	rootCmd.AddCommand(recruitersCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(marketCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDashboard opens the interactive dashboard. It needs an
// authenticated session; direct the user to login otherwise.
func runDashboard() error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	if !env.sess.Authenticated() {
		return fmt.Errorf("not logged in. Run 'careerdesk login --email you@example.com' first")
	}

	// The snapshot cache is an enhancement, not a requirement. A
	// corrupt or locked cache file must not keep the dashboard from
	// starting.
	var cache *store.Cache
	if c, err := store.Open(env.cachePath()); err == nil {
		cache = c
		defer c.Close()
		if n, err := c.PurgeOlderThan(30 * 24 * time.Hour); err == nil && n > 0 {
			logging.Store("purged %d expired snapshots", n)
		}
	} else {
		logging.StoreError("snapshot cache unavailable: %v", err)
	}

	m := dashboard.New(dashboard.Deps{
		Client:  env.client,
		Session: env.sess,
		Cache:   cache,
		Prefs:   env.prefs,
		Config:  env.cfg,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
