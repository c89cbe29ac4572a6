package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize uire configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the resolution engine and writes a .uire.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %s. Start the server with `uire serve`.\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
