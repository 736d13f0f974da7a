package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
)

var repoCmd = &cobra.Command{
	Use:     "repo",
	Aliases: []string{"repos"},
	Short:   "Work with repositories",
}

var repoListCmd = &cobra.Command{
	Use:   "list [user]",
	Short: "List repositories",
	Long: `List your repositories together with those of your organizations.

With a user argument, list that user's public repositories instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoList,
}

var repoCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoCreate,
}

var repoDeleteCmd = &cobra.Command{
	Use:   "delete <owner/name>",
	Short: "Delete a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoDelete,
}

var repoForksCmd = &cobra.Command{
	Use:   "forks <owner/name>",
	Short: "List forks of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoForks,
}

var repoBranchesCmd = &cobra.Command{
	Use:   "branches <owner/name>",
	Short: "List branches of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoBranches,
}

var repoCloneURLCmd = &cobra.Command{
	Use:   "clone-url <owner/name>",
	Short: "Print the clone URL of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoCloneURL,
}

var (
	repoListJSON      bool
	repoListWatched   bool
	repoDescription   string
	repoPrivate       bool
	repoDeleteConfirm bool
	repoForkOwner     string
	repoCloneSSH      bool
)

func init() {
	repoListCmd.Flags().BoolVar(&repoListJSON, "json", false, "output as JSON")
	repoListCmd.Flags().BoolVar(&repoListWatched, "watched", false, "list watched repositories")
	repoCreateCmd.Flags().StringVarP(&repoDescription, "description", "d", "", "repository description")
	repoCreateCmd.Flags().BoolVar(&repoPrivate, "private", false, "create a private repository")
	repoDeleteCmd.Flags().BoolVar(&repoDeleteConfirm, "yes", false, "confirm deletion")
	repoForksCmd.Flags().StringVar(&repoForkOwner, "owner", "", "only show the fork owned by this user")
	repoCloneURLCmd.Flags().BoolVar(&repoCloneSSH, "ssh", false, "print the SSH URL (defaults to the clone_using_ssh setting)")

	repoCmd.AddCommand(repoListCmd)
	repoCmd.AddCommand(repoCreateCmd)
	repoCmd.AddCommand(repoDeleteCmd)
	repoCmd.AddCommand(repoForksCmd)
	repoCmd.AddCommand(repoBranchesCmd)
	repoCmd.AddCommand(repoCloneURLCmd)
	rootCmd.AddCommand(repoCmd)
}

func runRepoList(cmd *cobra.Command, args []string) error {
	repos, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.Repo, error) {
		switch {
		case len(args) == 1:
			return codingnet.GetUserReposOf(ctx, conn, args[0])
		case repoListWatched:
			return codingnet.GetWatchedRepos(ctx, conn)
		default:
			return codingnet.GetAvailableRepos(ctx, conn)
		}
	})
	if err != nil {
		return err
	}

	if repoListJSON {
		return printJSON(cmd, repos)
	}
	printRepos(cmd, repos)
	return nil
}

func printRepos(cmd *cobra.Command, repos []domain.Repo) {
	if len(repos) == 0 {
		cmd.Println("No repositories found.")
		return
	}
	for _, r := range repos {
		line := r.FullName()
		if r.Private {
			line += " " + styles.Muted.Render("(private)")
		}
		if r.Fork {
			line += " " + styles.Muted.Render("(fork)")
		}
		cmd.Println(line)
		if r.Description != "" {
			cmd.Println("    " + r.Description)
		}
	}
}

func runRepoCreate(cmd *cobra.Command, args []string) error {
	repo, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (domain.Repo, error) {
		return codingnet.CreateRepo(ctx, conn, args[0], repoDescription, repoPrivate)
	})
	if err != nil {
		return err
	}
	cmd.Println(styles.Success.Render("Created " + repo.FullName()))
	if repo.HTMLURL != "" {
		cmd.Println(field("URL", repo.HTMLURL))
	}
	if repo.CloneURL != "" {
		cmd.Println(field("Clone", repo.CloneURL))
	}
	return nil
}

func runRepoDelete(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	if !repoDeleteConfirm {
		return fmt.Errorf("refusing to delete %s without --yes", repo)
	}
	if _, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (struct{}, error) {
		return struct{}{}, codingnet.DeleteRepo(ctx, conn, repo)
	}); err != nil {
		return err
	}
	cmd.Println(styles.Success.Render("Deleted " + repo.String()))
	return nil
}

func runRepoForks(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}

	if repoForkOwner != "" {
		fork, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (*domain.Repo, error) {
			return codingnet.FindForkByUser(ctx, conn, repo, repoForkOwner)
		})
		if err != nil {
			return err
		}
		if fork == nil {
			cmd.Printf("%s has no fork of %s\n", repoForkOwner, repo)
			return nil
		}
		cmd.Println(fork.FullName())
		return nil
	}

	forks, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.Repo, error) {
		return codingnet.GetForks(ctx, conn, repo)
	})
	if err != nil {
		return err
	}
	printRepos(cmd, forks)
	return nil
}

func runRepoBranches(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	branches, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.Branch, error) {
		return codingnet.GetRepoBranches(ctx, conn, repo)
	})
	if err != nil {
		return err
	}
	for _, b := range branches {
		cmd.Printf("%s %s\n", b.Name, styles.Muted.Render(shortSHA(b.SHA)))
	}
	return nil
}

func runRepoCloneURL(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	if settingsService == nil {
		return fmt.Errorf("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ssh := settings.CloneUsingSSH
	if cmd.Flags().Changed("ssh") {
		ssh = repoCloneSSH
	}
	cmd.Println(codingnet.CloneURL(currentHost(settings), repo, ssh))
	return nil
}
