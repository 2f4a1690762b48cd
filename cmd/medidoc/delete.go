package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
			fatal(err)
		}

		fmt.Printf("%s✓ Deleted %s%s\n", colorGreen, args[0], colorReset)
		if current := a.store.Current(); current != nil {
			fmt.Printf("Current document is now %q (%s)\n", current.Title, current.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
