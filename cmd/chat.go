package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"memchat/internal/config"
	"memchat/internal/engine"
	"memchat/internal/llm"
	"memchat/internal/memory"
	"memchat/internal/session"
)

var chatSessionFlag string

var (
	// Styles shared by the chat REPL and the sessions commands.
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	memoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("108"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively with session memory",
	Long: `Starts an interactive chat against the dialogue engine. Conversations are
persisted per session; long transcripts are summarized into structured
memory that follows the session across restarts.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionFlag, "session", "", "session id to resume (default: start a new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if key := config.APIKeyEnvVar(cfg.Provider); key != "" && os.Getenv(key) == "" {
		fmt.Fprintf(os.Stderr, "Warning: %s is not set; requests will fail until it is exported\n", key)
	}

	eng, database, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	sessionID := chatSessionFlag
	fmt.Println(metaStyle.Render("memchat " + Version + " • /new /stats /summary /quit"))
	if sessionID != "" {
		fmt.Println(metaStyle.Render("resuming session " + sessionID))
	}

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(userStyle.Render("you") + " > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the chat.
			fmt.Println()
			return nil
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := runChatCommand(ctx, eng, &sessionID, text); quit {
				return nil
			}
			continue
		}

		result, err := eng.Run(ctx, sessionID, text)
		if err != nil {
			fmt.Println(errorStyle.Render("! " + llm.UserMessage(err)))
			continue
		}
		sessionID = result.SessionID

		for _, reply := range result.Replies {
			fmt.Println(assistantStyle.Render("assistant") + " " + reply.Content)
		}
	}
}

// runChatCommand dispatches a slash command. It reports whether the REPL
// should exit.
func runChatCommand(ctx context.Context, eng *engine.Engine, sessionID *string, text string) bool {
	switch text {
	case "/quit", "/q":
		return true
	case "/new":
		*sessionID = ""
		fmt.Println(metaStyle.Render("started a new session"))
	case "/stats":
		if st, ok := loadChatState(ctx, eng, *sessionID); ok {
			fmt.Println(metaStyle.Render(fmt.Sprintf(
				"session %s • %d messages • %d tokens • %d clarification(s) • %d summarized",
				*sessionID, len(st.Messages), st.CurrentTokenCount,
				st.ClarificationCount, st.Summary.MessageRangeSummarized.To)))
		}
	case "/summary":
		if st, ok := loadChatState(ctx, eng, *sessionID); ok {
			if st.Summary.IsEmpty() {
				fmt.Println(metaStyle.Render("no memory extracted yet"))
			} else {
				fmt.Println(memoryStyle.Render(st.Summary.FormatForPrompt(memory.AllFields())))
			}
		}
	default:
		fmt.Println(metaStyle.Render("commands: /new /stats /summary /quit"))
	}
	return false
}

func loadChatState(ctx context.Context, eng *engine.Engine, sessionID string) (*session.State, bool) {
	if sessionID == "" {
		fmt.Println(metaStyle.Render("no active session yet, say something first"))
		return nil, false
	}
	st, err := eng.Store().Load(ctx, sessionID)
	if err != nil {
		fmt.Println(errorStyle.Render("! loading session: " + err.Error()))
		return nil, false
	}
	return st, true
}
