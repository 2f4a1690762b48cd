package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medidoc/internal/domain/models"
)

var importType string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a text or markdown file as a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp(cmd.Context())
		if err != nil {
			fatal(err)
		}

		doc, err := a.importer.ImportFile(cmd.Context(), args[0], models.DocumentType(importType))
		if err != nil {
			fatal(err)
		}

		fmt.Printf("%s✓ Imported %q (%s), id %s, %d words%s\n",
			colorGreen, doc.Title, doc.Type, doc.ID, doc.WordCount, colorReset)
	},
}

func init() {
	importCmd.Flags().StringVar(&importType, "type", "",
		`Document type (default "Custom Document")`)
	rootCmd.AddCommand(importCmd)
}
