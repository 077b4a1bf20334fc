package core

import "strings"

type Category string

const (
	CategoryActivity      Category = "activity"
	CategoryAuditTrail    Category = "audit_trail"
	CategorySecurity      Category = "security"
	CategoryUncategorized Category = "uncategorized"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Classification is the read-time tag attached to an event. Severity and
// Rationale are set only when the event matches the security predicate.
type Classification struct {
	Category  Category `json:"category"`
	Severity  Severity `json:"severity,omitempty"`
	Rationale string   `json:"rationale,omitempty"`
}

// Classify tags an event from (action, affectedTable) alone. It is total:
// every input gets a category, malformed ones fall through to uncategorized.
// Categories are not mutually exclusive by construction (ROLE_DELETE is both
// a data change and a security event); the single reported tag is the first
// match in Security, Activity, AuditTrail order, while MatchesCategory
// exposes each predicate independently for view filtering, so an event can
// appear in more than one view.
func Classify(action, affectedTable string) Classification {
	switch {
	case isSecurity(action):
		sev, why := securitySeverity(action, affectedTable)
		return Classification{Category: CategorySecurity, Severity: sev, Rationale: why}
	case isActivity(action):
		return Classification{Category: CategoryActivity}
	case isAuditTrail(action, affectedTable):
		return Classification{Category: CategoryAuditTrail}
	default:
		return Classification{Category: CategoryUncategorized}
	}
}

// MatchesCategory reports whether the event belongs to cat's own view.
// CategoryUncategorized matches only events no other predicate claims; an
// empty category matches everything (the "all" view).
func MatchesCategory(cat Category, action, affectedTable string) bool {
	switch cat {
	case CategoryActivity:
		return isActivity(action)
	case CategoryAuditTrail:
		return isAuditTrail(action, affectedTable)
	case CategorySecurity:
		return isSecurity(action)
	case CategoryUncategorized:
		return !isActivity(action) && !isAuditTrail(action, affectedTable) && !isSecurity(action)
	}
	return true
}

// ParseCategory maps a query-string value to a Category. Unknown values
// return false; an empty string is the unfiltered view.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(s)) {
	case CategoryActivity, CategoryAuditTrail, CategorySecurity, CategoryUncategorized:
		return Category(strings.ToLower(s)), true
	case "":
		return "", true
	}
	return "", false
}

func isActivity(action string) bool {
	return strings.Contains(action, "LOGIN") ||
		action == ActionLogout ||
		strings.Contains(action, "SESSION")
}

func isAuditTrail(action, affectedTable string) bool {
	return affectedTable != "" &&
		!strings.Contains(action, "LOGIN") &&
		action != ActionLogout
}

func isSecurity(action string) bool {
	return strings.Contains(action, ActionLoginFailed) ||
		strings.Contains(action, "PASSWORD") ||
		strings.Contains(action, "DELETE") ||
		strings.Contains(action, "ROLE")
}

// Fixed rationale strings surfaced next to the severity tier.
const (
	rationaleFailedLogin    = "Failed authentication attempt — potential unauthorized access"
	rationalePrincipalWipe  = "Deletion of a principal or role — privilege surface changed"
	rationaleRecordDelete   = "Permanent record deletion"
	rationalePasswordChange = "Credential material changed"
	rationaleRoleChange     = "Role or permission modification"
	rationaleDefault        = "Security-relevant action"
)

// securitySeverity tiers an event that matched the security predicate.
// Rules run top to bottom, first match wins.
func securitySeverity(action, affectedTable string) (Severity, string) {
	switch {
	case strings.Contains(action, ActionLoginFailed):
		return SeverityHigh, rationaleFailedLogin
	case action == ActionUserDelete || action == "ROLE_DELETE":
		return SeverityHigh, rationalePrincipalWipe
	case strings.Contains(action, "DELETE") && (affectedTable == "User" || affectedTable == "Role"):
		return SeverityHigh, rationalePrincipalWipe
	case strings.Contains(action, "DELETE"):
		return SeverityMedium, rationaleRecordDelete
	case strings.Contains(action, "PASSWORD"):
		return SeverityMedium, rationalePasswordChange
	case strings.Contains(action, "ROLE") && strings.Contains(action, "UPDATE"):
		return SeverityMedium, rationaleRoleChange
	default:
		return SeverityLow, rationaleDefault
	}
}
