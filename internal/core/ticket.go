package core

import "time"

type TicketStatus string

const (
	TicketUnpaid        TicketStatus = "UNPAID"
	TicketPartiallyPaid TicketStatus = "PARTIALLY_PAID"
	TicketPaid          TicketStatus = "PAID"
	TicketVoid          TicketStatus = "VOID"
)

type Ticket struct {
	TicketID  string       `json:"ticket_id"`
	TicketNo  string       `json:"ticket_no"`
	DriverID  string       `json:"driver_id"`
	VehicleID *string      `json:"vehicle_id,omitempty"`
	OfficerID string       `json:"officer_id"`
	Location  string       `json:"location,omitempty"`
	Status    TicketStatus `json:"status"`
	TotalFine float64      `json:"total_fine"`
	IssuedAt  time.Time    `json:"issued_at"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ViolationType struct {
	ViolationTypeID string  `json:"violation_type_id"`
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	FineAmount      float64 `json:"fine_amount"`
	DemeritPoints   int     `json:"demerit_points"`
	Active          bool    `json:"active"`
}

type TicketViolation struct {
	ID              int64     `json:"id"`
	TicketID        string    `json:"ticket_id"`
	ViolationTypeID string    `json:"violation_type_id"`
	Points          int       `json:"points"`
	Fine            float64   `json:"fine"`
	CreatedAt       time.Time `json:"created_at"`
}

type Payment struct {
	PaymentID   string    `json:"payment_id"`
	TicketID    string    `json:"ticket_id"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	ReceivedBy  string    `json:"received_by"`
	ReferenceNo string    `json:"reference_no,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Vehicle struct {
	VehicleID string    `json:"vehicle_id"`
	PlateNo   string    `json:"plate_no"`
	Make      string    `json:"make,omitempty"`
	Model     string    `json:"model,omitempty"`
	OwnerName string    `json:"owner_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
