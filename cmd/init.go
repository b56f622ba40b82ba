package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crukhq/supporter-engagement/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the service and writes a supporter-engagement.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
