package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage personal access tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a personal access token",
	Long: `Create a personal access token. Requires login and password credentials.

When a token with the same note exists the note gets a numeric suffix.
--master creates a token for repositories and gists; --tasks creates a
token able to read the issues of one repository.

Examples:
  coding token create --note ci --scopes repo,gist
  coding token create --master --save
  coding token create --tasks alice/demo`,
	Args: cobra.NoArgs,
	RunE: runTokenCreate,
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personal access tokens",
	Args:  cobra.NoArgs,
	RunE:  runTokenList,
}

var tokenScopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Show the scopes of the current credentials",
	Args:  cobra.NoArgs,
	RunE:  runTokenScopes,
}

var (
	tokenNote   string
	tokenScopes []string
	tokenMaster bool
	tokenTasks  string
	tokenSave   bool
	tokenJSON   bool
)

func init() {
	tokenCreateCmd.Flags().StringVar(&tokenNote, "note", "coding-cli", "token note")
	tokenCreateCmd.Flags().StringSliceVar(&tokenScopes, "scopes", nil, "comma separated scopes")
	tokenCreateCmd.Flags().BoolVar(&tokenMaster, "master", false, "create a repository and gist token")
	tokenCreateCmd.Flags().StringVar(&tokenTasks, "tasks", "", "create an issue token for owner/name")
	tokenCreateCmd.Flags().BoolVar(&tokenSave, "save", false, "log in with the new token")
	tokenCreateCmd.MarkFlagsMutuallyExclusive("scopes", "master", "tasks")
	tokenListCmd.Flags().BoolVar(&tokenJSON, "json", false, "output as JSON")

	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenScopesCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenCreate(cmd *cobra.Command, args []string) error {
	var task codingnet.Task[string]
	switch {
	case tokenMaster:
		task = func(ctx context.Context, conn *codingnet.Connection) (string, error) {
			return codingnet.GetMasterToken(ctx, conn, tokenNote)
		}
	case tokenTasks != "":
		repo, err := repoArg(tokenTasks)
		if err != nil {
			return err
		}
		task = func(ctx context.Context, conn *codingnet.Connection) (string, error) {
			return codingnet.GetTasksToken(ctx, conn, repo, tokenNote)
		}
	case len(tokenScopes) > 0:
		task = func(ctx context.Context, conn *codingnet.Connection) (string, error) {
			return codingnet.GetScopedToken(ctx, conn, tokenScopes, tokenNote)
		}
	default:
		return errors.New("one of --scopes, --master or --tasks is required")
	}

	token, s, err := runBasicTask(cmd, task)
	if err != nil {
		return err
	}

	if !tokenSave {
		cmd.Println(token)
		return nil
	}

	host := currentHost(s.settings)
	auth := domain.NewTokenAuth(host, token, s.settings.UseProxy)
	if err := credentialsService.Save(commandContext(cmd), auth, false); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := settingsService.Set("auth.type", domain.AuthTypeToken.String()); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	cmd.Println(styles.Success.Render("Created token and logged in to " + host))
	return nil
}

func runTokenList(cmd *cobra.Command, args []string) error {
	tokens, _, err := runBasicTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.Authorization, error) {
		return codingnet.GetAllTokens(ctx, conn)
	})
	if err != nil {
		return err
	}

	if tokenJSON {
		return printJSON(cmd, tokens)
	}
	if len(tokens) == 0 {
		cmd.Println("No tokens.")
		return nil
	}
	for _, t := range tokens {
		note := t.Note
		if note == "" {
			note = styles.Muted.Render("(no note)")
		}
		cmd.Printf("%-8d %s %s\n", t.ID, note, styles.Muted.Render(strings.Join(t.Scopes, ",")))
	}
	return nil
}

func runTokenScopes(cmd *cobra.Command, args []string) error {
	scopes, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]string, error) {
		return codingnet.GetTokenScopes(ctx, conn)
	})
	if err != nil {
		return err
	}
	if len(scopes) == 0 {
		cmd.Println("No scopes.")
		return nil
	}
	for _, s := range scopes {
		cmd.Println(s)
	}
	return nil
}
