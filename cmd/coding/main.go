// Command coding is a command line client for Coding.net.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/coding/coding-cli/internal/adapters/driven/config/file"
	"github.com/coding/coding-cli/internal/adapters/driven/prompt"
	"github.com/coding/coding-cli/internal/adapters/driven/storage/sqlite"
	"github.com/coding/coding-cli/internal/adapters/driving/cli"
	"github.com/coding/coding-cli/internal/core/services"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: getting home directory: %v\n", err)
		return 1
	}
	configDir := filepath.Join(home, ".coding")

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening credentials store: %v\n", err)
		return 1
	}
	defer store.Close()

	interrupt := prompt.NewInterrupt()
	defer interrupt.Stop()

	cli.Configure(cli.Dependencies{
		Settings:    services.NewSettingsService(configStore),
		Credentials: services.NewCredentialsService(store.CredentialsStore()),
		Prompter:    prompt.NewTerminal(),
		Indicator:   interrupt,
	})
	cli.SetVersion(version)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
