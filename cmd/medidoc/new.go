package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <template-id>",
	Short: "Create a document from a template and make it current",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		doc, err := a.store.Create(cmd.Context(), args[0])
		if err != nil {
			fatal(err)
		}

		fmt.Printf("%s✓ Created %q (%s), id %s%s\n",
			colorGreen, doc.Title, doc.Type, doc.ID, colorReset)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
