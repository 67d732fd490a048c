package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <source> [file]",
		Short: "Ingest a knowledge document",
		Long: `Ingest a document into the assistant's knowledge base under the given
source label. Content is read from the file argument, or from stdin when
the argument is omitted or "-". Re-ingesting a source replaces it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	source := args[0]

	var content []byte
	var err error
	if len(args) == 2 && args[1] != "-" {
		content, err = os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	} else {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	if err := apiClient.RequireToken(); err != nil {
		return err
	}

	resp, err := apiClient.Post("/api/rag/ingest", map[string]string{
		"source":  source,
		"content": string(content),
	})
	if err != nil {
		return err
	}

	var record struct {
		ID     string `json:"id"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(resp.Data, &record); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Ingested '%s' (%s)\n", record.Source, record.ID)
	return nil
}

// KnowledgeCmd returns the knowledge command
func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the knowledge base",
		Long:  "List and delete knowledge base records",
	}

	cmd.AddCommand(KnowledgeListCmd())
	cmd.AddCommand(KnowledgeDeleteCmd())

	return cmd
}

func KnowledgeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge records",
		RunE:  runKnowledgeList,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runKnowledgeList(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	if err := apiClient.RequireToken(); err != nil {
		return err
	}

	resp, err := apiClient.Get("/api/rag/knowledge")
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

	var records []struct {
		ID        string `json:"id"`
		Source    string `json:"source"`
		Content   string `json:"content"`
		Embedded  bool   `json:"embedded"`
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.Unmarshal(resp.Data, &records); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("Knowledge base is empty")
		return nil
	}

	for _, r := range records {
		status := "embedded"
		if !r.Embedded {
			status = "pending"
		}
		fmt.Printf("  %s: %d chars (%s, updated: %s)\n", r.Source, len(r.Content), status, r.UpdatedAt)
	}

	return nil
}

func KnowledgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <source>",
		Short: "Delete a knowledge record by source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			apiClient, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			if err := apiClient.RequireToken(); err != nil {
				return err
			}

			if _, err := apiClient.Delete("/api/rag/knowledge/" + url.PathEscape(source)); err != nil {
				return err
			}

			fmt.Printf("Deleted '%s'\n", source)
			return nil
		},
	}
}
