package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slimenefellah/myguide/internal/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the MyGuide travel assistant",
	Long: `Opens the active conversation (creating one if needed) and reads
messages from stdin. Type /history to reprint the conversation,
/delete to discard it, or /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := resolveRoute(cmd, a, "/chat", false)
		if err != nil || result == nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		session, err := a.Chat.GetOrCreateActive(ctx)
		if err != nil {
			return fmt.Errorf("could not open a conversation: %w", err)
		}
		if err := a.Chat.SelectSession(ctx, session.ID); err != nil {
			return fmt.Errorf("could not load conversation history: %w", err)
		}

		fmt.Fprintf(out, "Conversation: %s\n", session.Title)
		printMessages(cmd, a.Chat.Messages())

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch line {
			case "/quit":
				return nil
			case "/history":
				printMessages(cmd, a.Chat.Messages())
				continue
			case "/delete":
				if err := a.Chat.DeleteSession(ctx, session.ID); err != nil {
					fmt.Fprintf(out, "Delete failed: %v\n", err)
					continue
				}
				fmt.Fprintln(out, "Conversation deleted")
				return nil
			}

			if _, err := a.Chat.Send(ctx, session.ID, line); err != nil {
				// The optimistic entry stays, flagged failed; the user can
				// resend the same text.
				fmt.Fprintf(out, "Send failed (%v) - message kept, try again\n", err)
				continue
			}

			msgs := a.Chat.Messages()
			if len(msgs) > 0 {
				last := msgs[len(msgs)-1]
				if last.Role == models.RoleAssistant {
					fmt.Fprintf(out, "assistant: %s\n", last.Content)
				}
			}
		}
	},
}

func printMessages(cmd *cobra.Command, msgs []models.Message) {
	out := cmd.OutOrStdout()
	for _, m := range msgs {
		marker := ""
		if m.Failed {
			marker = " [failed]"
		}
		fmt.Fprintf(out, "%s: %s%s\n", m.Role, m.Content, marker)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
