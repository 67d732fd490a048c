package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// ProjectsCmd returns the projects command
func ProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse portfolio projects",
	}

	cmd.AddCommand(ProjectsListCmd())
	cmd.AddCommand(ProjectsGetCmd())

	return cmd
}

func ProjectsListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runProjectsList(cmd, outputFormat, limit, cursor)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runProjectsList(cmd *cobra.Command, outputFormat string, limit int, cursor string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	resp, err := apiClient.Get("/api/projects?" + query.Encode())
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		var pretty interface{}
		if err := json.Unmarshal(resp.Data, &pretty); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		jsonBytes, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	var page struct {
		Items []struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Tags        string `json:"tags"`
			PublishedAt string `json:"published_at"`
		} `json:"items"`
		Cursor  string `json:"cursor"`
		HasMore bool   `json:"has_more"`
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(page.Items) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	for _, p := range page.Items {
		fmt.Printf("  %s: %s (%s, published: %s)\n", p.ID, p.Title, p.Tags, p.PublishedAt)
	}
	if page.HasMore && page.Cursor != "" {
		fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
	}

	return nil
}

func ProjectsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project with its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := apiClient.Get("/api/projects/" + url.PathEscape(args[0]))
			if err != nil {
				return err
			}

			var pretty interface{}
			if err := json.Unmarshal(resp.Data, &pretty); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			jsonBytes, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(jsonBytes))
			return nil
		},
	}

	return cmd
}
