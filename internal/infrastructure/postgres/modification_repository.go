package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ModificationRepository = (*ModificationRepo)(nil)

// ModificationRepo implementación de ModificationRepository sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT.
type ModificationRepo struct {
	q Querier
}

// NewModificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewModificationRepository(q Querier) *ModificationRepo {
	return &ModificationRepo{q: q}
}

const modificationColumns = `id, line_id, old_quantity, new_quantity, reason, created_at, created_by`

// Create persiste una modificación.
func (r *ModificationRepo) Create(mod *entity.Modification) error {
	query := `
		INSERT INTO modifications (` + modificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		mod.ID, mod.LineID, mod.OldQuantity, mod.NewQuantity, mod.Reason, mod.CreatedAt, mod.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert modification: %w", err)
	}
	return nil
}

// LatestByLine devuelve la modificación más reciente por orden de creación;
// nil si la línea no tiene ninguna.
func (r *ModificationRepo) LatestByLine(lineID string) (*entity.Modification, error) {
	query := `
		SELECT ` + modificationColumns + `
		FROM modifications WHERE line_id = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`
	var m entity.Modification
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&m.ID, &m.LineID, &m.OldQuantity, &m.NewQuantity, &m.Reason, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest modification: %w", err)
	}
	return &m, nil
}

// ListByLine devuelve el historial completo de una línea en orden de creación.
func (r *ModificationRepo) ListByLine(lineID string) ([]*entity.Modification, error) {
	query := `
		SELECT ` + modificationColumns + `
		FROM modifications WHERE line_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list modifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Modification
	for rows.Next() {
		var m entity.Modification
		if err := rows.Scan(&m.ID, &m.LineID, &m.OldQuantity, &m.NewQuantity, &m.Reason, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan modification: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
