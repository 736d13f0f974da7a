// Package driving holds the service interfaces the CLI calls into:
// credential management and user settings. The services package
// implements them.
package driving
