package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const driverColumns = `driver_id, license_no, full_name, address, license_status, demerit_points, created_at, updated_at`

type CreateDriverParams struct {
	DriverID  string
	LicenseNo string
	FullName  string
	Address   string
}

func (q *Queries) CreateDriver(ctx context.Context, arg CreateDriverParams) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.drivers (driver_id, license_no, full_name, address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+driverColumns,
		arg.DriverID, arg.LicenseNo, arg.FullName, arg.Address)
	return scanDriver(row)
}

func (q *Queries) GetDriver(ctx context.Context, driverID string) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM tvrs.drivers WHERE driver_id = $1`, driverID)
	return scanDriver(row)
}

// GetDriverForUpdate locks the driver row for the rest of the transaction.
// The demerit check-and-suspend sequence depends on this lock: without it two
// concurrent violations could both read a below-threshold total and record
// two suspension events.
func (q *Queries) GetDriverForUpdate(ctx context.Context, driverID string) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM tvrs.drivers WHERE driver_id = $1 FOR UPDATE`, driverID)
	return scanDriver(row)
}

func (q *Queries) ListDrivers(ctx context.Context, limit, offset int32) ([]TvrsDriver, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+driverColumns+` FROM tvrs.drivers
		ORDER BY full_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()
	var drivers []TvrsDriver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

type UpdateDriverParams struct {
	DriverID string
	FullName string
	Address  string
}

func (q *Queries) UpdateDriver(ctx context.Context, arg UpdateDriverParams) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.drivers SET full_name = $2, address = $3, updated_at = now()
		WHERE driver_id = $1
		RETURNING `+driverColumns,
		arg.DriverID, arg.FullName, arg.Address)
	return scanDriver(row)
}

// AddDriverPoints increments the cumulative demerit total and returns the
// updated row.
func (q *Queries) AddDriverPoints(ctx context.Context, driverID string, points int32) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.drivers SET demerit_points = demerit_points + $2, updated_at = now()
		WHERE driver_id = $1
		RETURNING `+driverColumns,
		driverID, points)
	return scanDriver(row)
}

type SetLicenseStatusParams struct {
	DriverID      string
	LicenseStatus string
}

func (q *Queries) SetLicenseStatus(ctx context.Context, arg SetLicenseStatusParams) (TvrsDriver, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.drivers SET license_status = $2, updated_at = now()
		WHERE driver_id = $1
		RETURNING `+driverColumns,
		arg.DriverID, arg.LicenseStatus)
	return scanDriver(row)
}

func scanDriver(row pgx.Row) (TvrsDriver, error) {
	var d TvrsDriver
	err := row.Scan(&d.DriverID, &d.LicenseNo, &d.FullName, &d.Address,
		&d.LicenseStatus, &d.DemeritPoints, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
