// Samvaad: meeting-prep MCP server.
//
// Scores a short priority questionnaire and selects the questions worth
// asking at an arranged-marriage introduction.
//
// Usage:
//
//	samvaad serve                        # Start MCP server (stdio transport)
//	samvaad score --answers answers.yaml # Score an answers file offline
//	samvaad version                      # Print the version
package main

import (
	"fmt"
	"os"

	"github.com/HendryAvila/samvaad/internal/server"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "samvaad",
	Short:         "Meeting-prep priority scoring and question selection",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "samvaad v%s\n", server.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.samvaad/config.yaml)")
	rootCmd.AddCommand(serveCmd, scoreCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
