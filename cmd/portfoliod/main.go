package main

import (
	"fmt"
	"os"

	"github.com/berthonipasso/portfolio-api/internal/cli"
	"github.com/berthonipasso/portfolio-api/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portfoliod",
		Short: "Portfolio daemon and admin CLI",
		Long:  "Portfolio daemon for running the API server and managing admin accounts",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.AdminCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
