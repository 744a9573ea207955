package main

import (
	"fmt"

	"github.com/aretw0/stepsort"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stepsort",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stepsort version %s\n", stepsort.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
