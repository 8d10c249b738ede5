package main

import (
	"bufio"
	"fmt"
	"strings"

	"poli-assistant/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatSessionID string

// chatCmd talks to the assistant from the terminal, without the HTTP layer
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Poli in the terminal",
	Long: `Starts an interactive conversation with the same dialogue engine the server uses.
Type "exit" or press Ctrl+D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := bootstrap(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID := chatSessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Poli is ready (session %s). Ask me about any room!\n", sessionID)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "You: ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "exit" || line == "quit" {
				break
			}

			resp := app.chat.HandleTurn(ctx, &model.ChatRequest{Prompt: line, SessionID: sessionID})
			fmt.Fprintf(out, "Poli: %s\n", resp.Response)
			if resp.Data.NavigationStarted && resp.Data.NavCode != nil {
				fmt.Fprintf(out, "      [navigation code %d, %s]\n", *resp.Data.NavCode, resp.Data.RoomData.Key())
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		fmt.Fprintln(out)
		return nil
	},
}
