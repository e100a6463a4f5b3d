package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

var _ repository.ParamsRepository = (*ParamsRepo)(nil)

// ParamsRepo parámetros globales versionados (una fila por versión).
type ParamsRepo struct {
	q Querier
}

// NewParamsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewParamsRepository(q Querier) *ParamsRepo {
	return &ParamsRepo{q: q}
}

const paramsColumns = `version, service_level, lead_time_mean, lead_time_stdev, updated_at, updated_by`

// Current devuelve la versión más alta; nil si la tabla está vacía.
func (r *ParamsRepo) Current(ctx context.Context) (*entity.GlobalParameters, error) {
	p, err := scanParams(r.q.QueryRow(ctx, `SELECT `+paramsColumns+` FROM global_params ORDER BY version DESC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("current params: %w", err)
	}
	return &p, nil
}

// Save inserta la versión siguiente. La PK sobre version rechaza escrituras concurrentes con la misma versión.
func (r *ParamsRepo) Save(ctx context.Context, p *entity.GlobalParameters) error {
	query := `
		INSERT INTO global_params (version, service_level, lead_time_mean, lead_time_stdev, updated_at, updated_by)
		SELECT COALESCE(MAX(version), 0) + 1, $1, $2, $3, COALESCE($4, now()), $5 FROM global_params
		RETURNING version, updated_at`
	var updatedAt any
	if !p.UpdatedAt.IsZero() {
		updatedAt = p.UpdatedAt
	}
	err := r.q.QueryRow(ctx, query, p.ServiceLevel, p.LeadTimeMean, p.LeadTimeStdev, updatedAt, p.UpdatedBy).
		Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save params: %w", err)
	}
	return nil
}

// History versiones de la más reciente a la más antigua. limit <= 0 = todas.
func (r *ParamsRepo) History(ctx context.Context, limit int) ([]entity.GlobalParameters, error) {
	query := `SELECT ` + paramsColumns + ` FROM global_params ORDER BY version DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("params history: %w", err)
	}
	defer rows.Close()
	var list []entity.GlobalParameters
	for rows.Next() {
		p, err := scanParams(rows)
		if err != nil {
			return nil, fmt.Errorf("scan params: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanParams(row pgx.Row) (entity.GlobalParameters, error) {
	var p entity.GlobalParameters
	err := row.Scan(&p.Version, &p.ServiceLevel, &p.LeadTimeMean, &p.LeadTimeStdev, &p.UpdatedAt, &p.UpdatedBy)
	return p, err
}
