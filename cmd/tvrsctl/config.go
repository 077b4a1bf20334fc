package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type ConfigRow struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedBy string `json:"updated_by"`
	UpdatedAt string `json:"updated_at"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "System configuration commands (admin)",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config keys",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var resp struct {
			Config []ConfigRow `json:"config"`
		}
		if err := client.Get("/v1/config", &resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printResult(resp.Config)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get one config key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var c ConfigRow
		if err := client.Get("/v1/config/"+args[0], &c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s = %s\n", c.Key, c.Value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var c ConfigRow
		if err := client.Put("/v1/config/"+args[0], map[string]string{"value": args[1]}, &c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s = %s\n", c.Key, c.Value)
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
