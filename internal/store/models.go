package store

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type TvrsUser struct {
	UserID       string
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	Active       bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type TvrsDriver struct {
	DriverID      string
	LicenseNo     string
	FullName      string
	Address       string
	LicenseStatus string
	DemeritPoints int32
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type TvrsVehicle struct {
	VehicleID string
	PlateNo   string
	Make      string
	Model     string
	OwnerName string
	CreatedAt pgtype.Timestamptz
}

type TvrsViolationType struct {
	ViolationTypeID string
	Code            string
	Description     string
	FineAmount      pgtype.Numeric
	DemeritPoints   int32
	Active          bool
}

type TvrsTicket struct {
	TicketID  string
	TicketNo  string
	DriverID  string
	VehicleID pgtype.Text
	OfficerID string
	Location  string
	Status    string
	TotalFine pgtype.Numeric
	IssuedAt  pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type TvrsTicketViolation struct {
	ID              int64
	TicketID        string
	ViolationTypeID string
	Points          int32
	Fine            pgtype.Numeric
	CreatedAt       pgtype.Timestamptz
}

type TvrsPayment struct {
	PaymentID   string
	TicketID    string
	Amount      pgtype.Numeric
	Method      string
	ReceivedBy  string
	ReferenceNo string
	CreatedAt   pgtype.Timestamptz
}

type TvrsAuditEvent struct {
	EventID       int64
	ActorID       pgtype.Text
	Action        string
	Details       pgtype.Text
	IPAddress     pgtype.Text
	AffectedTable pgtype.Text
	AffectedID    pgtype.Text
	Ts            pgtype.Timestamptz
}

type TvrsSystemConfig struct {
	Key       string
	Value     string
	UpdatedBy pgtype.Text
	UpdatedAt pgtype.Timestamptz
}
