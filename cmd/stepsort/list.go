package main

import (
	"fmt"

	"github.com/aretw0/stepsort"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available sorting algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range stepsort.Algorithms() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
