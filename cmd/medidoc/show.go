package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medidoc/internal/service/docsystem"
)

var showPlain bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a document body (defaults to the current document)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		doc := a.store.Current()
		if len(args) == 1 {
			doc, err = a.store.Get(args[0])
			if err != nil {
				fatal(err)
			}
		}
		if doc == nil {
			fatal(fmt.Errorf("no current document; pass an id or create one"))
		}

		content := doc.Content
		if showPlain {
			content = docsystem.NewContentAnalyzer().CleanMarkdown(content)
		}
		fmt.Println(content)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Strip markdown syntax")
	rootCmd.AddCommand(showCmd)
}
