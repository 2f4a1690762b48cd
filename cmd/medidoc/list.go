package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents in the store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		docs := a.store.List()

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(docs); err != nil {
				fatal(err)
			}
			return
		}

		current := a.store.Current()
		for _, d := range docs {
			marker := "  "
			if current != nil && current.ID == d.ID {
				marker = colorGreen + "* " + colorReset
			}
			fmt.Printf("%s%s  %-40s  %-20s  v%s  %d words  %s\n",
				marker, d.ID, d.Title, d.Type, d.Version, d.WordCount,
				d.UpdatedAt.Format("2006-01-02 15:04"))
		}
		if len(docs) == 0 {
			fmt.Println("No documents. Create one with: medidoc new <template-id>")
		}
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
