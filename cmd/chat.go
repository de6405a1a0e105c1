package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/calagent/calagent/internal/a2a"
)

func newChatCmd() *cobra.Command {
	var (
		agentURL    string
		bearerToken string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running agent from the terminal",
		Long: `Open an interactive session against a running agent endpoint.

Each line you type is sent as a question and the agent's answer is printed
back. Type ":q" or "quit" to leave. All questions in one session share a
context id, so the agent can correlate them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, agentURL, bearerToken)
		},
	}

	cmd.Flags().StringVar(&agentURL, "agent", "http://localhost:10001", "Base URL of the agent endpoint")
	cmd.Flags().StringVar(&bearerToken, "bearer-token", os.Getenv("CALAGENT_BEARER_TOKEN"), "Bearer token for authenticated endpoints")

	return cmd
}

func runChat(cmd *cobra.Command, agentURL, bearerToken string) error {
	client, err := a2a.NewClient(agentURL, a2a.ClientConfig{
		BearerToken: bearerToken,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx := cmd.Context()

	card, err := client.AgentCard(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach agent at %s: %w", agentURL, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to %s (%s)\n", card.Name, agentURL)
	if card.Description != "" {
		fmt.Fprintln(out, card.Description)
	}
	fmt.Fprintln(out, `Type your question, or ":q" to quit.`)

	contextID := uuid.NewString()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == ":q" || input == "quit" {
			break
		}

		task, err := client.SendMessage(ctx, input, contextID)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}

		answer := task.OutputText()
		if answer == "" {
			answer = fmt.Sprintf("(no answer, task %s ended in state %q)", task.ID, task.Status.State)
		}
		fmt.Fprintln(out, answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	fmt.Fprintln(out, "Bye.")
	return nil
}
