package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL string
	token  string
	output string
)

var rootCmd = &cobra.Command{
	Use:   "tvrsctl",
	Short: "TVRS CLI - Traffic Violation Record System command line tool",
	Long:  `tvrsctl is a command line interface for the Traffic Violation Record System (TVRS).`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-url", "a", "http://localhost:8080", "TVRS API URL")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", os.Getenv("TVRS_TOKEN"), "Bearer token (defaults to $TVRS_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
}
