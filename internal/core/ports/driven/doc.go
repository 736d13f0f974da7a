// Package driven lists what the core needs from the outside world.
//
// CredentialsStore and ConfigStore must be provided (SQLite and TOML in the
// binary, memory in tests). Prompter and ProgressIndicator may be nil: with
// no Prompter a refused credential ends the task, and with no
// ProgressIndicator a task can only be stopped through its context.
//
// Implementations live under internal/adapters/driven; this package imports
// only domain.
package driven
