package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and print a bearer token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		client := NewClient(apiURL, "")
		var resp struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		}
		err = client.Post("/v1/auth/login", map[string]string{
			"username": args[0],
			"password": string(pw),
		}, &resp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Logged in as %s (%s).\n", resp.User.Username, resp.User.Role)
		fmt.Fprintln(os.Stderr, "Export the token for later commands:")
		fmt.Printf("export TVRS_TOKEN=%s\n", resp.Token)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Record a logout event for the current session",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)
		if err := client.Post("/v1/auth/logout", nil, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Logged out.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
