package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (q *Queries) GetConfig(ctx context.Context, key string) (TvrsSystemConfig, error) {
	row := q.db.QueryRow(ctx, `
		SELECT key, value, updated_by, updated_at FROM tvrs.system_config WHERE key = $1`, key)
	var c TvrsSystemConfig
	err := row.Scan(&c.Key, &c.Value, &c.UpdatedBy, &c.UpdatedAt)
	return c, err
}

func (q *Queries) ListConfig(ctx context.Context) ([]TvrsSystemConfig, error) {
	rows, err := q.db.Query(ctx, `
		SELECT key, value, updated_by, updated_at FROM tvrs.system_config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	var out []TvrsSystemConfig
	for rows.Next() {
		var c TvrsSystemConfig
		if err := rows.Scan(&c.Key, &c.Value, &c.UpdatedBy, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type UpsertConfigParams struct {
	Key       string
	Value     string
	UpdatedBy pgtype.Text
}

func (q *Queries) UpsertConfig(ctx context.Context, arg UpsertConfigParams) (TvrsSystemConfig, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.system_config (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = now()
		RETURNING key, value, updated_by, updated_at`,
		arg.Key, arg.Value, arg.UpdatedBy)
	var c TvrsSystemConfig
	err := row.Scan(&c.Key, &c.Value, &c.UpdatedBy, &c.UpdatedAt)
	return c, err
}

// GetConfigInt reads an integer config value, returning fallback when the key
// is absent or not numeric.
func (q *Queries) GetConfigInt(ctx context.Context, key string, fallback int) (int, error) {
	c, err := q.GetConfig(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	n, convErr := strconv.Atoi(c.Value)
	if convErr != nil {
		return fallback, nil
	}
	return n, nil
}
