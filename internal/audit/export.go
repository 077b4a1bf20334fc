package audit

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/observability"
)

// exportHeader is the column order of the delimited export.
var exportHeader = []string{
	"event_id", "timestamp", "actor", "action", "category", "severity",
	"affected_table", "affected_id", "ip_address", "details",
}

// ExportCSV renders rows as an RFC4180 table followed by a blank line and a
// summary block. Deterministic for a given (rows, now); an empty input
// produces the header plus an all-zero summary.
func ExportCSV(rows []ClassifiedEvent, now time.Time) string {
	var b strings.Builder
	w := csv.NewWriter(&b)

	_ = w.Write(exportHeader)

	var byCategory = map[core.Category]int{}
	var bySeverity = map[core.Severity]int{}
	for _, r := range rows {
		_ = w.Write([]string{
			strconv.FormatInt(r.EventID, 10),
			r.Ts.UTC().Format(time.RFC3339),
			r.ActorName,
			r.Action,
			string(r.Category),
			string(r.Severity),
			strOrEmpty(r.AffectedTable),
			strOrEmpty(r.AffectedID),
			strOrEmpty(r.IPAddress),
			strOrEmpty(r.Details),
		})
		byCategory[r.Category]++
		if r.Severity != "" {
			bySeverity[r.Severity]++
		}
	}
	w.Flush()

	b.WriteString("\n")

	s := csv.NewWriter(&b)
	_ = s.Write([]string{"summary", ""})
	_ = s.Write([]string{"total", strconv.Itoa(len(rows))})
	_ = s.Write([]string{"activity", strconv.Itoa(byCategory[core.CategoryActivity])})
	_ = s.Write([]string{"audit_trail", strconv.Itoa(byCategory[core.CategoryAuditTrail])})
	_ = s.Write([]string{"security", strconv.Itoa(byCategory[core.CategorySecurity])})
	_ = s.Write([]string{"uncategorized", strconv.Itoa(byCategory[core.CategoryUncategorized])})
	_ = s.Write([]string{"severity_high", strconv.Itoa(bySeverity[core.SeverityHigh])})
	_ = s.Write([]string{"severity_medium", strconv.Itoa(bySeverity[core.SeverityMedium])})
	_ = s.Write([]string{"severity_low", strconv.Itoa(bySeverity[core.SeverityLow])})
	_ = s.Write([]string{"generated_at", now.UTC().Format(time.RFC3339)})
	s.Flush()

	observability.AuditExportRows.Observe(float64(len(rows)))

	return b.String()
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
