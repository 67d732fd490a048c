package client

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ChatCmd returns the chat command
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the portfolio assistant a question",
		Long:  "Ask the retrieval-augmented portfolio assistant a question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat,
	}

	cmd.Flags().Bool("stream", false, "Stream the answer as it is generated")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	stream, _ := cmd.Flags().GetBool("stream")

	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	body := map[string]string{"question": question}

	if stream {
		err := apiClient.PostStream("/api/chat/stream", body, func(data []byte) error {
			var chunk struct {
				Answer string `json:"answer"`
			}
			if err := json.Unmarshal(data, &chunk); err != nil {
				return nil
			}
			fmt.Fprint(os.Stdout, chunk.Answer)
			return nil
		})
		fmt.Println()
		return err
	}

	resp, err := apiClient.Post("/api/chat", body)
	if err != nil {
		return err
	}

	var answer struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Data, &answer); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(answer.Answer)
	return nil
}
