package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
)

var prCmd = &cobra.Command{
	Use:     "pr",
	Aliases: []string{"mr"},
	Short:   "Work with pull requests",
}

var prCreateCmd = &cobra.Command{
	Use:   "create <owner/name>",
	Short: "Open a pull request",
	Long: `Open a pull request from --head into --base.

Example:
  coding pr create alice/demo --title "Fix login" --head feature --base master`,
	Args: cobra.ExactArgs(1),
	RunE: runPRCreate,
}

var prListCmd = &cobra.Command{
	Use:   "list <owner/name>",
	Short: "List open pull requests",
	Args:  cobra.ExactArgs(1),
	RunE:  runPRList,
}

var prViewCmd = &cobra.Command{
	Use:   "view <owner/name> <number>",
	Short: "Show a pull request",
	Args:  cobra.ExactArgs(2),
	RunE:  runPRView,
}

var (
	prTitle    string
	prBody     string
	prHead     string
	prBase     string
	prLimit    int
	prJSON     bool
	prFiles    bool
	prCommits  bool
	prComments bool
)

func init() {
	prCreateCmd.Flags().StringVarP(&prTitle, "title", "t", "", "pull request title")
	prCreateCmd.Flags().StringVarP(&prBody, "body", "b", "", "pull request description")
	prCreateCmd.Flags().StringVar(&prHead, "head", "", "branch with the changes")
	prCreateCmd.Flags().StringVar(&prBase, "base", "master", "branch to merge into")
	prListCmd.Flags().IntVarP(&prLimit, "limit", "n", 30, "maximum number of pull requests")
	prListCmd.Flags().BoolVar(&prJSON, "json", false, "output as JSON")
	prViewCmd.Flags().BoolVar(&prFiles, "files", false, "list changed files")
	prViewCmd.Flags().BoolVar(&prCommits, "commits", false, "list commits")
	prViewCmd.Flags().BoolVar(&prComments, "comments", false, "list review comments")

	prCmd.AddCommand(prCreateCmd)
	prCmd.AddCommand(prListCmd)
	prCmd.AddCommand(prViewCmd)
	rootCmd.AddCommand(prCmd)
}

func runPRCreate(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	if prTitle == "" || prHead == "" {
		return errors.New("--title and --head are required")
	}

	pr, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (domain.PullRequest, error) {
		return codingnet.CreatePullRequest(ctx, conn, repo, prTitle, prBody, prHead, prBase)
	})
	if err != nil {
		return err
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("Created pull request #%d", pr.Number)))
	if pr.HTMLURL != "" {
		cmd.Println(field("URL", pr.HTMLURL))
	}
	return nil
}

func runPRList(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}

	pulls, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.PullRequest, error) {
		var out []domain.PullRequest
		err := codingnet.PullRequestsPaged(repo).ForEach(ctx, conn, func(page []domain.PullRequest) bool {
			out = append(out, page...)
			return len(out) < prLimit
		})
		if len(out) > prLimit {
			out = out[:prLimit]
		}
		return out, err
	})
	if err != nil {
		return err
	}

	if prJSON {
		return printJSON(cmd, pulls)
	}
	if len(pulls) == 0 {
		cmd.Println("No open pull requests.")
		return nil
	}
	for _, p := range pulls {
		cmd.Printf("#%-5d %s %s\n", p.Number, p.Title, styles.Muted.Render(p.Head.Ref+" -> "+p.Base.Ref))
	}
	return nil
}

type prDetails struct {
	pull     domain.PullRequest
	files    []domain.PullRequestFile
	commits  []domain.Commit
	comments []domain.CommitComment
}

func runPRView(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	number, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid pull request number %q", args[1])
	}

	d, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (prDetails, error) {
		var d prDetails
		var err error
		if d.pull, err = codingnet.GetPullRequest(ctx, conn, repo, number); err != nil {
			return d, err
		}
		if prFiles {
			if d.files, err = codingnet.GetPullRequestFiles(ctx, conn, repo, number); err != nil {
				return d, err
			}
		}
		if prCommits {
			if d.commits, err = codingnet.GetPullRequestCommits(ctx, conn, repo, number); err != nil {
				return d, err
			}
		}
		if prComments {
			if d.comments, err = codingnet.GetPullRequestComments(ctx, conn, repo, number); err != nil {
				return d, err
			}
		}
		return d, nil
	})
	if err != nil {
		return err
	}

	p := d.pull
	cmd.Println(styles.Title.Render(fmt.Sprintf("#%d %s", p.Number, p.Title)))
	state := p.State
	if p.IsMerged() {
		state = "merged"
	}
	cmd.Println(field("State", state))
	cmd.Println(field("Author", p.User.Login))
	cmd.Println(field("Branches", p.Head.Label+" -> "+p.Base.Label))
	if p.HTMLURL != "" {
		cmd.Println(field("URL", p.HTMLURL))
	}

	if len(d.files) > 0 {
		cmd.Println()
		cmd.Println(styles.Label.Render("Files"))
		for _, f := range d.files {
			cmd.Printf("  %s %s\n", f.Filename, styles.Muted.Render(fmt.Sprintf("+%d -%d", f.Additions, f.Deletions)))
		}
	}
	if len(d.commits) > 0 {
		cmd.Println()
		cmd.Println(styles.Label.Render("Commits"))
		for _, c := range d.commits {
			cmd.Printf("  %s %s\n", styles.Muted.Render(shortSHA(c.SHA)), firstLine(c.Message))
		}
	}
	if len(d.comments) > 0 {
		cmd.Println()
		cmd.Println(styles.Label.Render("Comments"))
		for _, c := range d.comments {
			cmd.Printf("  %s: %s\n", c.User.Login, firstLine(c.BodyHTML))
		}
	}
	return nil
}
