package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/berthonipasso/portfolio-api/internal/config"
	"github.com/berthonipasso/portfolio-api/internal/database"
	"github.com/berthonipasso/portfolio-api/internal/repository"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Create admin accounts and prune expired session tokens",
	}

	cmd.AddCommand(AdminCreateCmd())
	cmd.AddCommand(AdminPruneTokensCmd())

	return cmd
}

func AdminCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a new admin account",
		Long:  "Create a new admin account with the specified email. The password is read from the terminal.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdminCreate,
	}

	cmd.Flags().StringP("name", "", "admin", "Display name for the account")
	cmd.Flags().StringP("password", "", "", "Password (prompted if not given)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	email := args[0]
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	outputFormat, _ := cmd.Flags().GetString("output")

	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	authSvc := service.NewAuthService(adminRepo)

	admin, err := authSvc.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":         admin.ID,
			"name":       admin.Name,
			"email":      admin.Email,
			"created_at": admin.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Admin created: %s (%s)\n", admin.Email, admin.ID)
	}

	return nil
}

func AdminPruneTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete expired session tokens",
		Long:  "Delete all admin session tokens past their expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := getDBPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			adminRepo := repository.NewAdminRepository(pool)
			authSvc := service.NewAuthService(adminRepo)

			pruned, err := authSvc.PruneExpiredTokens(ctx)
			if err != nil {
				return fmt.Errorf("failed to prune tokens: %w", err)
			}

			fmt.Printf("Pruned %d expired tokens\n", pruned)
			return nil
		},
	}
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}
