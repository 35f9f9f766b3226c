package cmd

import (
	"github.com/spf13/cobra"
	"memchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize memchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure memchat and generates a .memchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
