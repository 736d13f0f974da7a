// Package codingnet implements a resilient client for the Coding.net REST API.
//
// Every call goes through a [Connection], which classifies the outcome in
// two layers: the HTTP status line first, then the integer "code" field
// the service embeds in JSON bodies, looked up in a [Taxonomy].
//
// # Components
//
//   - Connection: executes one verb/path/body against the API host
//   - PagedRequest: walks data.list pages by following rel="next" links
//   - AuthHolder: shares credentials between concurrent tasks
//   - Runner: logs in, runs a task and recovers from refused credentials
//
// Operations such as [GetUserRepos] or [CreatePullRequest] are plain
// functions over an [Executor], so they run unchanged inside a task.
//
// # Authentication
//
// Three kinds of credentials are supported:
//
//   - Anonymous: no Authorization header
//   - Basic: login and password sent preemptively; the login call sends a
//     SHA-1 digest of the password and the server answers with a "sid"
//     session cookie that later connections replay
//   - Token: "Authorization: token <value>"
//
// When the server asks for a two-factor code (codes 3204/3205) or reports
// an expired session (3207/3209), the Runner prompts for a code, installs
// credentials carrying it and retries. Other refusals prompt for new
// credentials. Retries are bounded by RunnerConfig.MaxAttempts.
//
// # Cancellation
//
// [Connection.Abort] interrupts the call in flight and fails every later
// one with a [CanceledError]. The Runner polls its progress indicator after
// one second and then every 300ms, aborting the connection on request.
//
// # Example Usage
//
//	holder := codingnet.NewAuthHolder(auth)
//	runner := codingnet.NewRunner(holder, codingnet.RunnerConfig{Prompter: prompter})
//
//	repos, err := codingnet.RunTask(ctx, runner, nil,
//	    func(ctx context.Context, conn *codingnet.Connection) ([]domain.Repo, error) {
//	        return codingnet.GetUserRepos(ctx, conn)
//	    })
package codingnet
