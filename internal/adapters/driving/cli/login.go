package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Coding.net",
	Long: `Log in with a login and password, or with a personal access token.

Without --token you are asked for your login and password. Accounts with
two-factor authentication are asked for a code as well.

Examples:
  coding login
  coding login --login alice
  coding login --token 0123456789abcdef --host e.coding.net`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credentials for the host",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// Flags for login.
var (
	loginToken        string
	loginName         string
	loginSavePassword bool
)

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "personal access token")
	loginCmd.Flags().StringVar(&loginName, "login", "", "login to prefill")
	loginCmd.Flags().BoolVar(&loginSavePassword, "save-password", false, "store the password (defaults to the save_password setting)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	ctx := commandContext(cmd)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	host := currentHost(settings)

	auth, err := loginCredentials(ctx, host, settings)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, auth)
	if err != nil {
		return err
	}
	user, err := s.runner.Login(ctx, indicator)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	final := s.runner.Holder().Get()
	savePassword := settings.SavePassword
	if cmd.Flags().Changed("save-password") {
		savePassword = loginSavePassword
	}
	if err := credentialsService.Save(ctx, final, savePassword); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	if err := settingsService.SetMany(map[string]string{
		"auth.login": final.Login(),
		"auth.type":  string(final.Type()),
	}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	name := user.Login
	if name == "" {
		name = final.Login()
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("Logged in to %s as %s", host, name)))
	return nil
}

func loginCredentials(ctx context.Context, host string, settings domain.Settings) (*domain.AuthData, error) {
	if loginToken != "" {
		return domain.NewTokenAuth(host, loginToken, settings.UseProxy), nil
	}
	if prompter == nil {
		return nil, errors.New("no terminal to ask for credentials, use --token")
	}

	login := loginName
	if login == "" {
		login = settings.Login
	}
	auth, err := prompter.PromptCredentials(ctx, domain.NewBasicAuth(host, login, "", settings.UseProxy))
	if err != nil {
		return nil, fmt.Errorf("login canceled: %w", err)
	}
	return auth, nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || credentialsService == nil {
		return errors.New("credentials service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	host := currentHost(settings)

	err = credentialsService.Delete(commandContext(cmd), host)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cmd.Printf("Not logged in to %s\n", host)
		return nil
	case err != nil:
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	cmd.Printf("Logged out of %s\n", host)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	user, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (domain.UserDetailed, error) {
		u, _, err := codingnet.GetCurrentUserDetailed(ctx, conn, conn.Auth())
		if err == nil && u.Login == "" {
			u.Login = conn.Auth().Login()
		}
		return u, err
	})
	if err != nil {
		return err
	}

	cmd.Println(styles.Title.Render(user.Login))
	if user.Name != "" {
		cmd.Println(field("Name", user.Name))
	}
	if user.Email != "" {
		cmd.Println(field("Email", user.Email))
	}
	if user.Plan != nil {
		cmd.Println(field("Plan", user.Plan.Name))
	}
	return nil
}
