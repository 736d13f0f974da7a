package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/adapters/driven/browser"
	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/logger"
)

// openBrowser is replaced in tests.
var openBrowser = browser.Open

var gistCmd = &cobra.Command{
	Use:   "gist",
	Short: "Work with gists",
}

var gistCreateCmd = &cobra.Command{
	Use:   "create <file>...",
	Short: "Create a gist from files",
	Long: `Create a gist from one or more files. Use "-" to read stdin.

Visibility, anonymity and whether the gist opens in the browser default to
the gist.private, gist.anonymous and gist.open_in_browser settings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGistCreate,
}

var gistViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a gist",
	Args:  cobra.ExactArgs(1),
	RunE:  runGistView,
}

var gistDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a gist",
	Args:  cobra.ExactArgs(1),
	RunE:  runGistDelete,
}

var (
	gistDescription string
	gistPublic      bool
	gistAnonymous   bool
	gistOpen        bool
	gistRaw         bool
)

func init() {
	gistCreateCmd.Flags().StringVarP(&gistDescription, "description", "d", "", "gist description")
	gistCreateCmd.Flags().BoolVar(&gistPublic, "public", false, "make the gist public")
	gistCreateCmd.Flags().BoolVar(&gistAnonymous, "anonymous", false, "create the gist without logging in")
	gistCreateCmd.Flags().BoolVarP(&gistOpen, "web", "w", false, "open the gist in the browser")
	gistViewCmd.Flags().BoolVar(&gistRaw, "raw", false, "print file contents only")

	gistCmd.AddCommand(gistCreateCmd)
	gistCmd.AddCommand(gistViewCmd)
	gistCmd.AddCommand(gistDeleteCmd)
	rootCmd.AddCommand(gistCmd)
}

func readGistFiles(cmd *cobra.Command, paths []string) ([]domain.FileContent, error) {
	files := make([]domain.FileContent, 0, len(paths))
	for i, p := range paths {
		var data []byte
		var err error
		name := filepath.Base(p)
		if p == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
			name = fmt.Sprintf("gistfile%d.txt", i+1)
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, domain.FileContent{Name: name, Content: string(data)})
	}
	return files, nil
}

func runGistCreate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	files, err := readGistFiles(cmd, args)
	if err != nil {
		return err
	}

	public := !settings.PrivateGist
	if cmd.Flags().Changed("public") {
		public = gistPublic
	}
	anonymous := settings.AnonymousGist
	if cmd.Flags().Changed("anonymous") {
		anonymous = gistAnonymous
	}

	var gist domain.Gist
	if anonymous {
		gist, err = createAnonymousGist(commandContext(cmd), settings, files, public)
	} else {
		gist, err = runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (domain.Gist, error) {
			return codingnet.CreateGist(ctx, conn, files, gistDescription, public)
		})
	}
	if err != nil {
		return err
	}

	cmd.Println(styles.Success.Render("Created gist " + gist.ID))
	if gist.HTMLURL != "" {
		cmd.Println(field("URL", gist.HTMLURL))
	}

	open := settings.OpenInBrowserGist
	if cmd.Flags().Changed("web") {
		open = gistOpen
	}
	if open && gist.HTMLURL != "" {
		if err := openBrowser(gist.HTMLURL); err != nil {
			logger.Warn("could not open browser: %v", err)
		}
	}
	return nil
}

// createAnonymousGist posts without credentials, so no login is attempted.
func createAnonymousGist(ctx context.Context, settings domain.Settings, files []domain.FileContent, public bool) (domain.Gist, error) {
	conn, err := codingnet.NewConnection(domain.NewAnonymousAuth(currentHost(settings)), connectionConfig(settings))
	if err != nil {
		return domain.Gist{}, err
	}
	defer func() { _ = conn.Close() }()
	return codingnet.CreateGist(ctx, conn, files, gistDescription, public)
}

func runGistView(cmd *cobra.Command, args []string) error {
	gist, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (domain.Gist, error) {
		return codingnet.GetGist(ctx, conn, args[0])
	})
	if err != nil {
		return err
	}

	if gistRaw {
		for _, f := range gist.Files {
			cmd.Print(f.Content)
		}
		return nil
	}

	title := gist.ID
	if gist.Description != "" {
		title += " " + gist.Description
	}
	cmd.Println(styles.Title.Render(title))
	cmd.Println(field("Public", yesNo(gist.Public)))
	if gist.Owner != nil {
		cmd.Println(field("Owner", gist.Owner.Login))
	}
	if gist.HTMLURL != "" {
		cmd.Println(field("URL", gist.HTMLURL))
	}
	for _, f := range gist.Files {
		cmd.Println()
		cmd.Println(styles.Label.Render(f.Filename))
		cmd.Println(f.Content)
	}
	return nil
}

func runGistDelete(cmd *cobra.Command, args []string) error {
	_, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (struct{}, error) {
		return struct{}{}, codingnet.DeleteGist(ctx, conn, args[0])
	})
	if err != nil {
		return err
	}
	cmd.Println(styles.Success.Render("Deleted gist " + args[0]))
	return nil
}
