package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizflow/quizflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quizflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quizflow version %s\n", strings.TrimSpace(quizflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
