// Package domain holds the types shared by every layer of the coding CLI:
// per-host credentials (AuthData and its stored form Credentials), user
// settings, and the records the Coding.net API returns (users, repos, pull
// requests, issues, gists, commits and authorizations).
//
// Nothing here imports another internal package or a third-party module.
package domain
