package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type DriverRow struct {
	DriverID      string `json:"driver_id"`
	LicenseNo     string `json:"license_no"`
	FullName      string `json:"full_name"`
	LicenseStatus string `json:"license_status"`
	DemeritPoints int    `json:"demerit_points"`
}

type DriverListResponse struct {
	Drivers []DriverRow `json:"drivers"`
}

var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Driver management commands",
}

var driverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered drivers",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var resp DriverListResponse
		if err := client.Get("/v1/drivers?limit=100", &resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printResult(resp.Drivers)
	},
}

var driverGetCmd = &cobra.Command{
	Use:   "get <driver-id>",
	Short: "Get driver details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var d DriverRow
		if err := client.Get("/v1/drivers/"+args[0], &d); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printResult([]DriverRow{d})
	},
}

var driverCreateCmd = &cobra.Command{
	Use:   "create <license-no> <full-name>",
	Short: "Register a new driver",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var d DriverRow
		err := client.Post("/v1/drivers", map[string]string{
			"license_no": args[0],
			"full_name":  args[1],
		}, &d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Driver registered: %s\n", d.DriverID)
	},
}

var driverLicenseCmd = &cobra.Command{
	Use:   "set-license <driver-id> <ACTIVE|SUSPENDED|REVOKED>",
	Short: "Set a driver's license status (admin)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var d DriverRow
		err := client.Put("/v1/drivers/"+args[0]+"/license-status", map[string]string{
			"license_status": args[1],
		}, &d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("License status for %s is now %s.\n", d.LicenseNo, d.LicenseStatus)
	},
}

func init() {
	driverCmd.AddCommand(driverListCmd)
	driverCmd.AddCommand(driverGetCmd)
	driverCmd.AddCommand(driverCreateCmd)
	driverCmd.AddCommand(driverLicenseCmd)
	rootCmd.AddCommand(driverCmd)
}
