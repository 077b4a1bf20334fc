package audit

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/jcabrerra/tvrs/internal/core"
)

func sampleRows() []ClassifiedEvent {
	details := `reason: "late payment", count=2`
	table := "Ticket"
	return []ClassifiedEvent{
		{
			Event:          core.Event{EventID: 3, Action: "LOGIN_FAILED", Ts: time.Unix(1700000300, 0)},
			Classification: core.Classify("LOGIN_FAILED", ""),
			ActorName:      "unknown actor",
		},
		{
			Event:          core.Event{EventID: 2, Action: "TICKET_CREATE", AffectedTable: &table, Details: &details, Ts: time.Unix(1700000200, 0)},
			Classification: core.Classify("TICKET_CREATE", table),
			ActorName:      "Dela Cruz, Juan",
		},
		{
			Event:          core.Event{EventID: 1, Action: "LOGOUT", Ts: time.Unix(1700000100, 0)},
			Classification: core.Classify("LOGOUT", ""),
			ActorName:      "Dela Cruz, Juan",
		},
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	out := ExportCSV(sampleRows(), time.Unix(1700001000, 0))

	parts := strings.SplitN(out, "\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("expected table and summary separated by a blank line, got %d parts", len(parts))
	}

	r := csv.NewReader(strings.NewReader(parts[0]))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("export does not re-parse as CSV: %s", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][0] != "event_id" {
		t.Errorf("missing header row, got %v", records[0])
	}
	// The details field contains a comma and a quote; it must survive quoting.
	if records[2][9] != `reason: "late payment", count=2` {
		t.Errorf("details field mangled: %q", records[2][9])
	}
	if records[1][4] != "security" || records[1][5] != "HIGH" {
		t.Errorf("LOGIN_FAILED row mistagged: %v", records[1])
	}

	sr := csv.NewReader(strings.NewReader(parts[1]))
	sr.FieldsPerRecord = -1
	summary, err := sr.ReadAll()
	if err != nil {
		t.Fatalf("summary does not re-parse: %s", err)
	}
	got := map[string]string{}
	for _, rec := range summary {
		got[rec[0]] = rec[1]
	}
	if got["total"] != "3" {
		t.Errorf("summary total = %q, want 3", got["total"])
	}
	if got["security"] != "1" || got["activity"] != "1" || got["audit_trail"] != "1" {
		t.Errorf("summary category counts wrong: %v", got)
	}
	if got["severity_high"] != "1" {
		t.Errorf("summary severity_high = %q, want 1", got["severity_high"])
	}
	if got["generated_at"] == "" {
		t.Error("summary missing generated_at")
	}
}

func TestExportCSV_Deterministic(t *testing.T) {
	now := time.Unix(1700001000, 0)
	if ExportCSV(sampleRows(), now) != ExportCSV(sampleRows(), now) {
		t.Error("same input produced different exports")
	}
}

func TestExportCSV_Empty(t *testing.T) {
	out := ExportCSV(nil, time.Unix(1700001000, 0))
	if !strings.HasPrefix(out, "event_id,") {
		t.Errorf("empty export missing header: %q", out)
	}
	if !strings.Contains(out, "total,0") {
		t.Errorf("empty export summary should report total 0: %q", out)
	}
	if !strings.Contains(out, "severity_high,0") {
		t.Errorf("empty export summary should report zero severities: %q", out)
	}
}
