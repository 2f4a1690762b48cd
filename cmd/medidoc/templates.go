package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in document templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		for _, t := range a.registry.List() {
			fmt.Printf("%s%s%s  (%s)\n", colorCyan, t.ID, colorReset, t.Type)
			fmt.Printf("    %s\n", t.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
