package codingnet

import (
	"strings"

	"github.com/coding/coding-cli/internal/core/domain"
)

// RemoveProtocolPrefix strips "scheme://" or "user@" from a URL.
// For scp-style addresses the host separator becomes a slash:
// "git@coding.net:alice/demo.git" -> "coding.net/alice/demo.git".
func RemoveProtocolPrefix(url string) string {
	if i := strings.Index(url, "@"); i != -1 {
		return strings.ReplaceAll(url[i+1:], ":", "/")
	}
	if i := strings.Index(url, "://"); i != -1 {
		return url[i+3:]
	}
	return url
}

// RemoveTrailingSlash strips a single trailing slash.
func RemoveTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}

// APIProtocol returns "http://" when the configured host asks for it,
// "https://" otherwise.
func APIProtocol(host string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(host)), "http://") {
		return "http://"
	}
	return "https://"
}

// HostWithoutProtocol returns the lower-cased host with any protocol
// prefix and trailing slash removed.
func HostWithoutProtocol(host string) string {
	return RemoveTrailingSlash(RemoveProtocolPrefix(strings.ToLower(strings.TrimSpace(host))))
}

// APIURL returns the base URL requests are resolved against.
// An empty host means the default Coding.net host.
func APIURL(host string) string {
	if strings.TrimSpace(host) == "" {
		host = domain.DefaultHost
	}
	return APIProtocol(host) + HostWithoutProtocol(host)
}

// HostFromURL returns the host part of a remote URL.
func HostFromURL(url string) string {
	path := strings.ReplaceAll(RemoveProtocolPrefix(url), ":", "/")
	if i := strings.Index(path, "/"); i != -1 {
		return path[:i]
	}
	return path
}

// IsCodingNetURL reports whether url points at host.
func IsCodingNetURL(url, host string) bool {
	host = HostFromURL(host)
	url = RemoveProtocolPrefix(url)
	if len(url) < len(host) || !strings.EqualFold(url[:len(host)], host) {
		return false
	}
	if len(url) > len(host) && !strings.ContainsRune(":/", rune(url[len(host)])) {
		return false
	}
	return true
}

// UserAndRepoFromRemoteURL extracts owner and repository from a git remote.
// The second value is false when the URL has no owner/repo path.
func UserAndRepoFromRemoteURL(remote string) (domain.RepoPath, bool) {
	remote = RemoveProtocolPrefix(removeEndingDotGit(remote))

	i1 := strings.LastIndex(remote, "/")
	if i1 == -1 {
		return domain.RepoPath{}, false
	}
	head := remote[:i1]
	i2 := max(strings.LastIndex(head, "/"), strings.LastIndex(head, ":"))
	if i2 == -1 {
		return domain.RepoPath{}, false
	}

	owner := remote[i2+1 : i1]
	name := remote[i1+1:]
	if owner == "" || name == "" {
		return domain.RepoPath{}, false
	}
	return domain.RepoPath{Owner: owner, Name: name}, true
}

// RepoURLFromRemoteURL converts a git remote into a web URL on host.
func RepoURLFromRemoteURL(remote, host string) (string, bool) {
	path, ok := UserAndRepoFromRemoteURL(remote)
	if !ok {
		return "", false
	}
	return APIURL(host) + "/" + path.Owner + "/" + path.Name, true
}

// CloneURL returns the git URL for a repository on host.
func CloneURL(host string, path domain.RepoPath, ssh bool) string {
	h := HostWithoutProtocol(host)
	if ssh {
		return "git@" + h + ":" + path.Owner + "/" + path.Name + ".git"
	}
	return APIProtocol(host) + h + "/" + path.Owner + "/" + path.Name + ".git"
}

func removeEndingDotGit(url string) string {
	return strings.TrimSuffix(RemoveTrailingSlash(url), ".git")
}
