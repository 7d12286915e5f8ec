package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"careerdesk/internal/api"
	"careerdesk/internal/store"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the careerdesk service",
	Long: `Authenticate and store the session token pair in the config
directory. The password is prompted unless --password is given.

Example:
  careerdesk login --email you@example.com`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session and cached snapshots",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")
	loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	password := loginPassword
	if password == "" {
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	ctx, cancel := commandContext()
	defer cancel()

	logger.Info("Logging in", zap.String("email", loginEmail))
	res, err := env.client.Login(ctx, api.Credentials{Email: loginEmail, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := env.sess.SetAccount(res.Account); err != nil {
		return fmt.Errorf("session not persisted: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", res.Account.FullName, res.Account.Email)
	if !res.Account.EmailVerified {
		fmt.Println("Your email address is not verified yet. Sending is locked until it is.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if err := env.sess.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	// Cached snapshots belong to the account that fetched them.
	if cache, err := store.Open(env.cachePath()); err == nil {
		if err := cache.Clear(); err != nil {
			logger.Warn("Snapshot cache not cleared", zap.Error(err))
		}
		_ = cache.Close()
	}

	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	acct, err := env.client.CurrentAccount(ctx)
	if err != nil {
		// Offline fallback: the persisted identity is better than
		// nothing, flagged as such.
		if cached := env.sess.Account(); cached != nil {
			fmt.Printf("%s (%s) [cached, server unreachable]\n", cached.FullName, cached.Email)
			return nil
		}
		return err
	}

	fmt.Printf("%s (%s)\n", acct.FullName, acct.Email)
	fmt.Printf("Plan: %s\n", orDash(acct.Plan))
	if acct.EmailVerified {
		fmt.Println("Email: verified")
	} else {
		fmt.Println("Email: not verified")
	}
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	// Piped stdin (scripts, tests).
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
