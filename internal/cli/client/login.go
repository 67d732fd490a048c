package client

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store an admin token",
		Long:  "Exchange admin credentials for a bearer token and store it in the global config",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogin,
	}

	cmd.Flags().String("password", "", "Password (prompted if not given)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]
	password, _ := cmd.Flags().GetString("password")

	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := apiClient.Post("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	var login struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	config, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	if config == nil {
		config = &GlobalConfig{}
	}
	config.Token = login.Token
	if config.APIURL == "" {
		if flagURL, err := cmd.Flags().GetString("api-url"); err == nil && flagURL != "" {
			config.APIURL = flagURL
		}
	}

	if err := SaveGlobalConfig(config); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Logged in. Token valid until %s\n", login.ExpiresAt)
	return nil
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}
