package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

type TicketRow struct {
	TicketID  string  `json:"ticket_id"`
	TicketNo  string  `json:"ticket_no"`
	DriverID  string  `json:"driver_id"`
	Status    string  `json:"status"`
	TotalFine float64 `json:"total_fine"`
	IssuedAt  string  `json:"issued_at"`
}

type TicketListResponse struct {
	Tickets []TicketRow `json:"tickets"`
}

type TicketDetailResponse struct {
	Ticket    TicketRow `json:"ticket"`
	Suspended bool      `json:"suspended"`
}

var (
	ticketDriver   string
	ticketStatus   string
	ticketVehicle  string
	ticketLocation string
	paymentMethod  string
	paymentRef     string
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Ticket management commands",
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		q := url.Values{}
		q.Set("limit", "100")
		if ticketDriver != "" {
			q.Set("driver_id", ticketDriver)
		}
		if ticketStatus != "" {
			q.Set("status", ticketStatus)
		}

		var resp TicketListResponse
		if err := client.Get("/v1/tickets?"+q.Encode(), &resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printResult(resp.Tickets)
	},
}

var ticketGetCmd = &cobra.Command{
	Use:   "get <ticket-id>",
	Short: "Get ticket details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var resp TicketDetailResponse
		if err := client.Get("/v1/tickets/"+args[0], &resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printResult([]TicketRow{resp.Ticket})
	},
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create <driver-id> <violation-type-id>...",
	Short: "Issue a ticket with one or more violations",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		req := map[string]interface{}{
			"driver_id":          args[0],
			"violation_type_ids": args[1:],
			"location":           ticketLocation,
		}
		if ticketVehicle != "" {
			req["vehicle_id"] = ticketVehicle
		}

		var resp TicketDetailResponse
		if err := client.Post("/v1/tickets", req, &resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Ticket issued: %s (%s, fine %.2f)\n", resp.Ticket.TicketID, resp.Ticket.TicketNo, resp.Ticket.TotalFine)
		if resp.Suspended {
			fmt.Println("Driver's license has been SUSPENDED by the demerit threshold rule.")
		}
	},
}

var ticketPayCmd = &cobra.Command{
	Use:   "pay <ticket-id> <amount>",
	Short: "Record a payment against a ticket",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: amount must be a number\n")
			os.Exit(1)
		}

		client := NewClient(apiURL, token)
		var resp struct {
			Ticket TicketRow `json:"ticket"`
		}
		err = client.Post("/v1/tickets/"+args[0]+"/payments", map[string]interface{}{
			"amount":       amount,
			"method":       paymentMethod,
			"reference_no": paymentRef,
		}, &resp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Payment recorded. Ticket %s is now %s.\n", resp.Ticket.TicketNo, resp.Ticket.Status)
	},
}

var ticketVoidCmd = &cobra.Command{
	Use:   "void <ticket-id>",
	Short: "Void a ticket (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL, token)

		var t TicketRow
		if err := client.Post("/v1/tickets/"+args[0]+":void", nil, &t); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ticket %s voided.\n", t.TicketNo)
	},
}

func init() {
	ticketListCmd.Flags().StringVar(&ticketDriver, "driver", "", "Filter by driver ID")
	ticketListCmd.Flags().StringVar(&ticketStatus, "status", "", "Filter by status (UNPAID, PARTIALLY_PAID, PAID, VOID)")
	ticketCreateCmd.Flags().StringVar(&ticketVehicle, "vehicle", "", "Vehicle ID")
	ticketCreateCmd.Flags().StringVar(&ticketLocation, "location", "", "Violation location")
	ticketPayCmd.Flags().StringVar(&paymentMethod, "method", "CASH", "Payment method")
	ticketPayCmd.Flags().StringVar(&paymentRef, "ref", "", "Payment reference number")

	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketGetCmd)
	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketPayCmd)
	ticketCmd.AddCommand(ticketVoidCmd)
	rootCmd.AddCommand(ticketCmd)
}
