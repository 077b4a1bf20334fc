package core

import "time"

// Event is one immutable audit record. Rows are append-only: nothing in this
// codebase updates or deletes them, and EventID order is the canonical
// chronological order when timestamps collide.
type Event struct {
	EventID       int64     `json:"event_id"`
	ActorID       *string   `json:"actor_id,omitempty"`
	Action        string    `json:"action"`
	Details       *string   `json:"details,omitempty"`
	IPAddress     *string   `json:"ip_address,omitempty"`
	AffectedTable *string   `json:"affected_table,omitempty"`
	AffectedID    *string   `json:"affected_id,omitempty"`
	Ts            time.Time `json:"ts"`
}

// EventInput is what callers hand to the recorder. Action is the only
// required field; the vocabulary is open, classification happens at read time.
type EventInput struct {
	ActorID       *string
	Action        string
	Details       *string
	IPAddress     *string
	AffectedTable *string
	AffectedID    *string
}

// Common action tokens. The set is not closed: handlers are free to mint new
// <ENTITY>_<VERB> tokens and the classifier will still place them.
const (
	ActionLoginSuccess         = "LOGIN_SUCCESS"
	ActionLoginFailed          = "LOGIN_FAILED"
	ActionLogout               = "LOGOUT"
	ActionUserCreate           = "USER_CREATE"
	ActionUserUpdate           = "USER_UPDATE"
	ActionUserDelete           = "USER_DELETE"
	ActionUserPasswordChange   = "USER_PASSWORD_CHANGE"
	ActionDriverCreate         = "DRIVER_CREATE"
	ActionDriverUpdate         = "DRIVER_UPDATE"
	ActionDriverLicenseSuspend = "DRIVER_LICENSE_SUSPEND"
	ActionDriverLicenseSet     = "DRIVER_LICENSE_STATUS_SET"
	ActionVehicleCreate        = "VEHICLE_CREATE"
	ActionViolationTypeCreate  = "VIOLATION_TYPE_CREATE"
	ActionViolationTypeUpdate  = "VIOLATION_TYPE_UPDATE"
	ActionTicketCreate         = "TICKET_CREATE"
	ActionTicketVoid           = "TICKET_VOID"
	ActionTicketViolationAdd   = "TICKET_VIOLATION_ADD"
	ActionPaymentCreate        = "PAYMENT_CREATE"
	ActionConfigUpdate         = "CONFIG_UPDATE"
)
