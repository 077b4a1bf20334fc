package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `vehicle_id, plate_no, make, model, owner_name, created_at`

type CreateVehicleParams struct {
	VehicleID string
	PlateNo   string
	Make      string
	Model     string
	OwnerName string
}

func (q *Queries) CreateVehicle(ctx context.Context, arg CreateVehicleParams) (TvrsVehicle, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.vehicles (vehicle_id, plate_no, make, model, owner_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+vehicleColumns,
		arg.VehicleID, arg.PlateNo, arg.Make, arg.Model, arg.OwnerName)
	return scanVehicle(row)
}

func (q *Queries) GetVehicle(ctx context.Context, vehicleID string) (TvrsVehicle, error) {
	row := q.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM tvrs.vehicles WHERE vehicle_id = $1`, vehicleID)
	return scanVehicle(row)
}

func (q *Queries) ListVehicles(ctx context.Context, limit, offset int32) ([]TvrsVehicle, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+vehicleColumns+` FROM tvrs.vehicles
		ORDER BY plate_no LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()
	var out []TvrsVehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVehicle(row pgx.Row) (TvrsVehicle, error) {
	var v TvrsVehicle
	err := row.Scan(&v.VehicleID, &v.PlateNo, &v.Make, &v.Model, &v.OwnerName, &v.CreatedAt)
	return v, err
}
