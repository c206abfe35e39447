package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sprintdeck",
	Short: "Sprint planning analytics over ticket exports",
	Long: `sprintdeck ingests Jira-style XML or delimited-text ticket exports,
rebuilds the Epic > Story > Subtask hierarchy and prints capacity, load and
cutoff analysis without needing the API server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cutoffCmd)
}
