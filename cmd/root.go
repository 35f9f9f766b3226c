package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "memchat",
	Short: "Chat assistant with persistent session memory",
	Long: `Memchat is a chat assistant that remembers. Conversations are stored
per session, long transcripts are distilled into structured memory that
outlives summarization, and ambiguous questions get one clarifying
question before the budget forces a best-effort answer.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".memchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
