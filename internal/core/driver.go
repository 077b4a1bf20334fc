package core

import "time"

type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "ACTIVE"
	LicenseSuspended LicenseStatus = "SUSPENDED"
	LicenseRevoked   LicenseStatus = "REVOKED"
)

func ValidLicenseStatus(s LicenseStatus) bool {
	switch s {
	case LicenseActive, LicenseSuspended, LicenseRevoked:
		return true
	}
	return false
}

type Driver struct {
	DriverID      string        `json:"driver_id"`
	LicenseNo     string        `json:"license_no"`
	FullName      string        `json:"full_name"`
	Address       string        `json:"address,omitempty"`
	LicenseStatus LicenseStatus `json:"license_status"`
	DemeritPoints int           `json:"demerit_points"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ConfigKeyDemeritThreshold is the system_config key holding the cumulative
// point total at which a license is suspended automatically.
const ConfigKeyDemeritThreshold = "demerit_suspension_threshold"
