package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Change a document's title",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		doc, err := a.store.UpdateTitle(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			fatal(err)
		}

		fmt.Printf("%s✓ Renamed to %q%s\n", colorGreen, doc.Title, colorReset)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
