package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const violationTypeColumns = `violation_type_id, code, description, fine_amount, demerit_points, active`

type CreateViolationTypeParams struct {
	ViolationTypeID string
	Code            string
	Description     string
	FineAmount      float64
	DemeritPoints   int32
}

func (q *Queries) CreateViolationType(ctx context.Context, arg CreateViolationTypeParams) (TvrsViolationType, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.violation_types (violation_type_id, code, description, fine_amount, demerit_points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+violationTypeColumns,
		arg.ViolationTypeID, arg.Code, arg.Description, arg.FineAmount, arg.DemeritPoints)
	return scanViolationType(row)
}

func (q *Queries) GetViolationType(ctx context.Context, violationTypeID string) (TvrsViolationType, error) {
	row := q.db.QueryRow(ctx, `SELECT `+violationTypeColumns+` FROM tvrs.violation_types WHERE violation_type_id = $1`, violationTypeID)
	return scanViolationType(row)
}

func (q *Queries) ListViolationTypes(ctx context.Context, activeOnly bool) ([]TvrsViolationType, error) {
	sql := `SELECT ` + violationTypeColumns + ` FROM tvrs.violation_types ORDER BY code`
	if activeOnly {
		sql = `SELECT ` + violationTypeColumns + ` FROM tvrs.violation_types WHERE active ORDER BY code`
	}
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list violation types: %w", err)
	}
	defer rows.Close()
	var out []TvrsViolationType
	for rows.Next() {
		vt, err := scanViolationType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

type UpdateViolationTypeParams struct {
	ViolationTypeID string
	Description     string
	FineAmount      float64
	DemeritPoints   int32
	Active          bool
}

func (q *Queries) UpdateViolationType(ctx context.Context, arg UpdateViolationTypeParams) (TvrsViolationType, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.violation_types
		SET description = $2, fine_amount = $3, demerit_points = $4, active = $5
		WHERE violation_type_id = $1
		RETURNING `+violationTypeColumns,
		arg.ViolationTypeID, arg.Description, arg.FineAmount, arg.DemeritPoints, arg.Active)
	return scanViolationType(row)
}

func scanViolationType(row pgx.Row) (TvrsViolationType, error) {
	var vt TvrsViolationType
	err := row.Scan(&vt.ViolationTypeID, &vt.Code, &vt.Description, &vt.FineAmount, &vt.DemeritPoints, &vt.Active)
	return vt, err
}
