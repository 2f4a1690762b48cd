package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a one-off question (no document context)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initAppWithAssistant(cmd.Context())
		if err != nil {
			fatal(err)
		}

		reply, err := a.gateway.GenerateContent(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			fatal(err)
		}
		fmt.Println(reply)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
