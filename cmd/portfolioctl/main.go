package main

import (
	"fmt"
	"os"

	"github.com/berthonipasso/portfolio-api/internal/cli"
	"github.com/berthonipasso/portfolio-api/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Portfolio CLI - talk to the portfolio API",
		Long: `Portfolio CLI provides commands to chat with the portfolio assistant
and manage its knowledge base.

Environment variables:
  PORTFOLIO_API_TOKEN   Admin bearer token (required for admin commands)
  PORTFOLIO_API_URL     API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("token", "", "Admin bearer token (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.LoginCmd())
	rootCmd.AddCommand(client.LogoutCmd())
	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.IngestCmd())
	rootCmd.AddCommand(client.KnowledgeCmd())
	rootCmd.AddCommand(client.ProjectsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
