package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/robby/ghl/internal/domain"
	"github.com/robby/ghl/internal/gh"
	"github.com/robby/ghl/internal/list"
	"github.com/robby/ghl/internal/tui"
)

var (
	// CLI flags
	repoFlag  string
	hostFlag  string
	pullsFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ghl",
		Short: "Terminal list view for GitHub issues and pull requests",
		Long: `ghl is a terminal list view for a repository's issues or pull requests.

Search by text or item number (#123), filter by author, switch between open
and closed items, and when the repository is a fork, flip between the
upstream repository and the fork itself.

Authentication:
  1. GitHub CLI: Run 'gh auth login' (preferred)
  2. Environment variable: Set GITHUB_TOKEN`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&repoFlag, "repo", "", "Repository in owner/name form (required)")
	rootCmd.Flags().StringVar(&hostFlag, "host", gh.DefaultHost, "GitHub host address (for GitHub Enterprise)")
	rootCmd.Flags().BoolVar(&pullsFlag, "pulls", false, "List pull requests instead of issues")
	_ = rootCmd.MarkFlagRequired("repo")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	repo, err := parseRepo(repoFlag, hostFlag)
	if err != nil {
		return err
	}

	client, err := gh.New(hostFlag)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w\n\nPlease authenticate using:\n  gh auth login\nor set the GITHUB_TOKEN environment variable", err)
	}

	var flavor list.Flavor
	kindLabel := "issues"
	if pullsFlag {
		flavor = gh.NewPullRequestFlavor(client)
		kindLabel = "pull requests"
	} else {
		flavor = gh.NewIssueFlavor(client)
	}

	ctx := context.Background()
	orc := list.New(flavor, client)

	app := tui.NewAppModel(ctx, orc, repo, kindLabel)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	orc.Close()
	return nil
}

// parseRepo validates the owner/name flag form.
func parseRepo(value, host string) (domain.RepositoryRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok || owner == "" || name == "" {
		return domain.RepositoryRef{}, fmt.Errorf("--repo must be in owner/name form, got %q", value)
	}
	return domain.RepositoryRef{Host: host, Owner: owner, Name: name}, nil
}
