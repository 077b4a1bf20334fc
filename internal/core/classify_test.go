package core

import "testing"

func TestClassify_FailedLoginIsHighSecurity(t *testing.T) {
	c := Classify(ActionLoginFailed, "")
	if c.Category != CategorySecurity {
		t.Errorf("expected category security, got %s", c.Category)
	}
	if c.Severity != SeverityHigh {
		t.Errorf("expected severity HIGH, got %q", c.Severity)
	}
	if !MatchesCategory(CategorySecurity, ActionLoginFailed, "") {
		t.Error("LOGIN_FAILED must match the security view")
	}
}

// The failed-login rule is a substring match, so prefixed variants like
// ADMIN_LOGIN_FAILED tier the same as the bare token.
func TestClassify_FailedLoginVariants(t *testing.T) {
	for _, action := range []string{"ADMIN_LOGIN_FAILED", "LOGIN_FAILED_LOCKOUT"} {
		c := Classify(action, "")
		if c.Category != CategorySecurity {
			t.Errorf("%s: expected category security, got %s", action, c.Category)
		}
		if c.Severity != SeverityHigh {
			t.Errorf("%s: expected severity HIGH, got %q", action, c.Severity)
		}
	}
	// Plain LOGIN_SUCCESS still lands in activity, not security.
	if got := Classify(ActionLoginSuccess, "").Category; got != CategoryActivity {
		t.Errorf("LOGIN_SUCCESS category = %s", got)
	}
}

func TestClassify_AuditTrailRule(t *testing.T) {
	cases := []struct {
		action string
		table  string
		want   bool
	}{
		{"TICKET_CREATE", "Ticket", true},
		{"DRIVER_UPDATE", "Driver", true},
		{ActionLoginSuccess, "User", false},
		{ActionLogout, "User", false},
		{"TICKET_CREATE", "", false},
	}
	for _, tc := range cases {
		got := MatchesCategory(CategoryAuditTrail, tc.action, tc.table)
		if got != tc.want {
			t.Errorf("MatchesCategory(audit_trail, %q, %q) = %v, want %v", tc.action, tc.table, got, tc.want)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	actions := []string{ActionLoginFailed, "ROLE_DELETE", "TICKET_CREATE", "LOGOUT", "GARBAGE", ""}
	for _, a := range actions {
		first := Classify(a, "Ticket")
		second := Classify(a, "Ticket")
		if first != second {
			t.Errorf("Classify(%q) not deterministic: %+v vs %+v", a, first, second)
		}
	}
}

func TestClassify_ConcreteScenario(t *testing.T) {
	// The mixed batch from a typical enforcement session.
	cases := []struct {
		action   string
		table    string
		security bool
		wantSev  Severity
	}{
		{"LOGIN_FAILED", "", true, SeverityHigh},
		{"USER_DELETE", "User", true, SeverityHigh},
		{"TICKET_CREATE", "Ticket", false, ""},
		{"LOGOUT", "", false, ""},
	}
	for _, tc := range cases {
		c := Classify(tc.action, tc.table)
		if MatchesCategory(CategorySecurity, tc.action, tc.table) != tc.security {
			t.Errorf("%s: security view membership wrong", tc.action)
		}
		if c.Severity != tc.wantSev {
			t.Errorf("%s: severity = %q, want %q", tc.action, c.Severity, tc.wantSev)
		}
	}
	// TICKET_CREATE lands in the audit trail, LOGOUT in activity.
	if got := Classify("TICKET_CREATE", "Ticket").Category; got != CategoryAuditTrail {
		t.Errorf("TICKET_CREATE category = %s", got)
	}
	if got := Classify("LOGOUT", "").Category; got != CategoryActivity {
		t.Errorf("LOGOUT category = %s", got)
	}
}

func TestClassify_SeverityTiers(t *testing.T) {
	cases := []struct {
		action string
		table  string
		want   Severity
	}{
		{"ROLE_DELETE", "Role", SeverityHigh},
		{"PERMISSION_DELETE", "Role", SeverityHigh},
		{"LOG_DELETE", "AuditLog", SeverityMedium},
		{"USER_PASSWORD_CHANGE", "User", SeverityMedium},
		{"ROLE_UPDATE", "Role", SeverityMedium},
		{"ROLE_ASSIGN", "User", SeverityLow},
	}
	for _, tc := range cases {
		sev, why := securitySeverity(tc.action, tc.table)
		if sev != tc.want {
			t.Errorf("securitySeverity(%q, %q) = %s, want %s", tc.action, tc.table, sev, tc.want)
		}
		if why == "" {
			t.Errorf("securitySeverity(%q, %q): empty rationale", tc.action, tc.table)
		}
	}
}

func TestClassify_UncategorizedFallback(t *testing.T) {
	c := Classify("HEARTBEAT", "")
	if c.Category != CategoryUncategorized {
		t.Errorf("expected uncategorized, got %s", c.Category)
	}
	if c.Severity != "" || c.Rationale != "" {
		t.Errorf("uncategorized must carry no severity, got %+v", c)
	}
	if !MatchesCategory("", "HEARTBEAT", "") {
		t.Error("empty category must match everything")
	}
	if !MatchesCategory(CategoryUncategorized, "HEARTBEAT", "") {
		t.Error("uncategorized view must include unmatched events")
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("SECURITY"); !ok || c != CategorySecurity {
		t.Errorf("ParseCategory(SECURITY) = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("bogus"); ok {
		t.Error("ParseCategory must reject unknown values")
	}
	if c, ok := ParseCategory(""); !ok || c != "" {
		t.Errorf("ParseCategory(empty) = %q, %v", c, ok)
	}
}
