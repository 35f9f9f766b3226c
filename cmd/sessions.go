package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"memchat/internal/chat"
	"memchat/internal/export"
	"memchat/internal/memory"
)

var sessionHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored chat sessions",
	Long:  `List, inspect, export, delete, and search the sessions persisted in the local database.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session transcript and its memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript as a standalone HTML page",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search remembered facts across sessions",
	Long:  `Semantically searches the recall index built from session memory. Requires recall.enabled in the config.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsSearch,
}

func init() {
	sessionsExportCmd.Flags().String("out", "", "output file (default <session-id>.html)")
	sessionsSearchCmd.Flags().Int("limit", 5, "maximum number of results")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, database, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	infos, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No sessions stored yet. Run `memchat chat` to start one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMESSAGES\tTOKENS\tCLARIF\tUPDATED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			info.ID, info.MessageCount, info.TokenCount, info.ClarificationCount,
			info.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	st, err := store.Load(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	fmt.Println(sessionHeaderStyle.Render("Session " + sessionID))
	fmt.Println(metaStyle.Render(fmt.Sprintf("%d messages • %d tokens • %d clarification(s)",
		len(st.Messages), st.CurrentTokenCount, st.ClarificationCount)))
	fmt.Println()

	for _, msg := range st.Messages {
		style := assistantStyle
		if msg.Role == chat.RoleUser {
			style = userStyle
		}
		fmt.Println(style.Render(msg.Role) + " " + msg.Content)
	}

	if !st.Summary.IsEmpty() {
		fmt.Println()
		fmt.Println(memoryStyle.Render(st.Summary.FormatForPrompt(memory.AllFields())))
	}

	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = sessionID + ".html"
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	st, err := store.Load(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	page, err := export.HTML(sessionID, st)
	if err != nil {
		return fmt.Errorf("rendering transcript: %w", err)
	}
	if err := os.WriteFile(outPath, page, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("Exported session %s to %s\n", sessionID, outPath)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.Delete(context.Background(), sessionID); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}

	fmt.Printf("Session %s deleted\n", sessionID)
	return nil
}

func runSessionsSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Recall.Enabled {
		return fmt.Errorf("recall is disabled; set recall.enabled: true in %s and chat to build the index", cfgFile)
	}

	ix, err := openRecallIndex(cfg)
	if err != nil {
		return fmt.Errorf("opening recall index: %w", err)
	}

	if ix.Count() == 0 {
		fmt.Println("Recall index is empty. Facts are indexed once sessions grow long enough to be summarized.")
		return nil
	}

	results, err := ix.Search(context.Background(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d result(s):\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.Similarity*100, r.Fact.Content)
		fmt.Println(metaStyle.Render(fmt.Sprintf("     session %s, %s", r.Fact.SessionID, r.Fact.Field)))
	}

	return nil
}
