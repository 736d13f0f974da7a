package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
)

var issueCmd = &cobra.Command{
	Use:     "issue",
	Aliases: []string{"issues"},
	Short:   "Work with repository issues",
}

var issueListCmd = &cobra.Command{
	Use:   "list <owner/name>",
	Short: "List issues",
	Long: `List issues of a repository.

Without --query the listing is filtered by assignee and capped by --limit.
With --query the search endpoint is used and results are not capped.

Examples:
  coding issue list alice/demo --assignee alice
  coding issue list alice/demo --query "login crash" --all`,
	Args: cobra.ExactArgs(1),
	RunE: runIssueList,
}

var issueViewCmd = &cobra.Command{
	Use:   "view <owner/name> <number>",
	Short: "Show an issue and its comments",
	Args:  cobra.ExactArgs(2),
	RunE:  runIssueView,
}

var issueCloseCmd = &cobra.Command{
	Use:   "close <owner/name> <number>",
	Short: "Close an issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueSetState(cmd, args, false)
	},
}

var issueReopenCmd = &cobra.Command{
	Use:   "reopen <owner/name> <number>",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueSetState(cmd, args, true)
	},
}

var (
	issueAssignee string
	issueQuery    string
	issueLimit    int
	issueAll      bool
	issueJSON     bool
)

func init() {
	issueListCmd.Flags().StringVarP(&issueAssignee, "assignee", "a", "", "only issues assigned to this user")
	issueListCmd.Flags().StringVarP(&issueQuery, "query", "q", "", "search text")
	issueListCmd.Flags().IntVarP(&issueLimit, "limit", "n", 30, "maximum number of issues")
	issueListCmd.Flags().BoolVar(&issueAll, "all", false, "include closed issues")
	issueListCmd.Flags().BoolVar(&issueJSON, "json", false, "output as JSON")

	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueViewCmd)
	issueCmd.AddCommand(issueCloseCmd)
	issueCmd.AddCommand(issueReopenCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueArgs(args []string) (domain.RepoPath, int64, error) {
	repo, err := repoArg(args[0])
	if err != nil {
		return domain.RepoPath{}, 0, err
	}
	number, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || number <= 0 {
		return domain.RepoPath{}, 0, fmt.Errorf("invalid issue number %q", args[1])
	}
	return repo, number, nil
}

func runIssueList(cmd *cobra.Command, args []string) error {
	repo, err := repoArg(args[0])
	if err != nil {
		return err
	}

	issues, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) ([]domain.Issue, error) {
		if issueQuery != "" {
			return codingnet.GetIssuesQueried(ctx, conn, repo, issueAssignee, issueQuery, issueAll)
		}
		return codingnet.GetIssuesAssigned(ctx, conn, repo, issueAssignee, issueLimit, issueAll)
	})
	if err != nil {
		return err
	}

	if issueJSON {
		return printJSON(cmd, issues)
	}
	if len(issues) == 0 {
		cmd.Println("No issues found.")
		return nil
	}
	for _, i := range issues {
		state := styles.Success.Render(i.State)
		if !i.IsOpen() {
			state = styles.Muted.Render(i.State)
		}
		cmd.Printf("#%-5d %-6s %s\n", i.Number, state, i.Title)
	}
	return nil
}

func runIssueView(cmd *cobra.Command, args []string) error {
	repo, number, err := issueArgs(args)
	if err != nil {
		return err
	}

	type issueDetails struct {
		issue    domain.Issue
		comments []domain.IssueComment
	}
	d, err := runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (issueDetails, error) {
		var d issueDetails
		var err error
		if d.issue, err = codingnet.GetIssue(ctx, conn, repo, number); err != nil {
			return d, err
		}
		d.comments, err = codingnet.GetIssueComments(ctx, conn, repo, number)
		return d, err
	})
	if err != nil {
		return err
	}

	i := d.issue
	cmd.Println(styles.Title.Render(fmt.Sprintf("#%d %s", i.Number, i.Title)))
	cmd.Println(field("State", i.State))
	cmd.Println(field("Author", i.User.Login))
	if i.Assignee != nil {
		cmd.Println(field("Assignee", i.Assignee.Login))
	}
	if i.HTMLURL != "" {
		cmd.Println(field("URL", i.HTMLURL))
	}
	if i.Body != "" {
		cmd.Println()
		cmd.Println(i.Body)
	}
	if len(d.comments) > 0 {
		cmd.Println()
		cmd.Println(styles.Label.Render(fmt.Sprintf("Comments (%d)", len(d.comments))))
		for _, c := range d.comments {
			cmd.Printf("  %s: %s\n", c.User.Login, firstLine(c.BodyHTML))
		}
	}
	return nil
}

func runIssueSetState(cmd *cobra.Command, args []string, open bool) error {
	repo, number, err := issueArgs(args)
	if err != nil {
		return err
	}

	_, err = runTask(cmd, func(ctx context.Context, conn *codingnet.Connection) (struct{}, error) {
		return struct{}{}, codingnet.SetIssueState(ctx, conn, repo, number, open)
	})
	if err != nil {
		return err
	}

	verb := "Closed"
	if open {
		verb = "Reopened"
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("%s issue #%d in %s", verb, number, repo)))
	return nil
}
