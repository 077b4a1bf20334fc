package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

func printResult(v interface{}) {
	if output == "json" {
		json.NewEncoder(os.Stdout).Encode(v)
		return
	}
	printTable(v)
}

func printTable(v interface{}) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch data := v.(type) {
	case []EventRow:
		if len(data) == 0 {
			fmt.Println("No events found.")
			return
		}
		fmt.Fprintln(w, "ID\tTIMESTAMP\tACTOR\tACTION\tCATEGORY\tSEVERITY\tTABLE")
		for _, e := range data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.EventID, e.Ts, e.ActorName, e.Action, e.Category, e.Severity, e.AffectedTable)
		}
	case []DriverRow:
		if len(data) == 0 {
			fmt.Println("No drivers found.")
			return
		}
		fmt.Fprintln(w, "DRIVER ID\tLICENSE\tNAME\tSTATUS\tPOINTS")
		for _, d := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				d.DriverID, d.LicenseNo, truncate(d.FullName, 30), d.LicenseStatus, d.DemeritPoints)
		}
	case []TicketRow:
		if len(data) == 0 {
			fmt.Println("No tickets found.")
			return
		}
		fmt.Fprintln(w, "TICKET ID\tDRIVER\tSTATUS\tFINE\tISSUED")
		for _, t := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
				t.TicketID, t.DriverID, t.Status, t.TotalFine, t.IssuedAt)
		}
	case StatsRow:
		fmt.Fprintf(w, "Total:\t%d\n", data.Total)
		fmt.Fprintf(w, "Activity:\t%d\n", data.Activity)
		fmt.Fprintf(w, "Audit trail:\t%d\n", data.AuditTrail)
		fmt.Fprintf(w, "Security:\t%d\n", data.Security)
		fmt.Fprintf(w, "Uncategorized:\t%d\n", data.Uncategorized)
	default:
		json.NewEncoder(os.Stdout).Encode(v)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
