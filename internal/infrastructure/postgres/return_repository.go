package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, original_operation_id, direction, operation_date, paper_ref_number,
	deliverer_name, deliverer_job_number, statement, description, created_at, created_by`

// Create persiste la cabecera de una devolución.
func (r *ReturnRepo) Create(ret *entity.ReturnOperation) error {
	query := `
		INSERT INTO return_operations (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.OriginalOperationID, ret.Direction, ret.OperationDate, ret.PaperRefNumber,
		ret.DelivererName, ret.DelivererJobNumber, ret.Statement, ret.Description,
		ret.CreatedAt, ret.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de devoluciones.
func (r *ReturnRepo) CreateLine(line *entity.ReturnLine) error {
	query := `
		INSERT INTO return_lines (id, return_operation_id, item_id, returned_quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReturnOperationID, line.ItemID, line.ReturnedQuantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLineItem
		}
		return fmt.Errorf("insert return line: %w", err)
	}
	return nil
}

// GetByID devuelve la devolución con sus líneas; nil si no existe.
func (r *ReturnRepo) GetByID(id string) (*entity.ReturnOperation, error) {
	query := `SELECT ` + returnColumns + ` FROM return_operations WHERE id = $1`
	var ret entity.ReturnOperation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ret.ID, &ret.OriginalOperationID, &ret.Direction, &ret.OperationDate, &ret.PaperRefNumber,
		&ret.DelivererName, &ret.DelivererJobNumber, &ret.Statement, &ret.Description,
		&ret.CreatedAt, &ret.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	if err := r.loadLines(&ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// ListByOriginalOperation lista las devoluciones contra una operación original.
func (r *ReturnRepo) ListByOriginalOperation(originalOperationID string) ([]*entity.ReturnOperation, error) {
	query := `
		SELECT ` + returnColumns + `
		FROM return_operations WHERE original_operation_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, originalOperationID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnOperation
	for rows.Next() {
		var ret entity.ReturnOperation
		if err := rows.Scan(
			&ret.ID, &ret.OriginalOperationID, &ret.Direction, &ret.OperationDate, &ret.PaperRefNumber,
			&ret.DelivererName, &ret.DelivererJobNumber, &ret.Statement, &ret.Description,
			&ret.CreatedAt, &ret.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		list = append(list, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ret := range list {
		if err := r.loadLines(ret); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ReturnRepo) loadLines(ret *entity.ReturnOperation) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, return_operation_id, item_id, returned_quantity
		FROM return_lines WHERE return_operation_id = $1 ORDER BY item_id`, ret.ID)
	if err != nil {
		return fmt.Errorf("get return lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.ReturnLine
		if err := rows.Scan(&l.ID, &l.ReturnOperationID, &l.ItemID, &l.ReturnedQuantity); err != nil {
			return fmt.Errorf("scan return line: %w", err)
		}
		ret.Lines = append(ret.Lines, l)
	}
	return rows.Err()
}
