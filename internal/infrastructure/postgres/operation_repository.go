package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository sobre PostgreSQL.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `id, kind, warehouse_id, to_warehouse_id, supplier_id, beneficiary_id,
	station_id, operation_date, paper_ref_number, supply_bon_number, deliverer_name,
	deliverer_job_number, statement, description, reason, created_at, created_by`

const lineColumns = `id, operation_id, item_id, quantity, returned_quantity`

// Create persiste la cabecera de una operación.
func (r *OperationRepo) Create(op *entity.Operation) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, NULLIF($5, '')::uuid, NULLIF($6, '')::uuid,
			NULLIF($7, '')::uuid, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Kind, op.WarehouseID, op.ToWarehouseID, op.SupplierID, op.BeneficiaryID,
		op.StationID, op.OperationDate, op.PaperRefNumber, op.SupplyBonNumber, op.DelivererName,
		op.DelivererJobNumber, op.Statement, op.Description, op.Reason, op.CreatedAt, op.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// CreateLine persiste una línea. La constraint única (operation_id, item_id)
// respalda el rechazo de ítems duplicados.
func (r *OperationRepo) CreateLine(line *entity.OperationLine) error {
	query := `
		INSERT INTO operation_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OperationID, line.ItemID, line.Quantity, line.ReturnedQuantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLineItem
		}
		return fmt.Errorf("insert operation line: %w", err)
	}
	return nil
}

// GetByID devuelve la operación con sus líneas; nil si no existe.
func (r *OperationRepo) GetByID(id string) (*entity.Operation, error) {
	query := `
		SELECT id, kind, warehouse_id, COALESCE(to_warehouse_id::text, ''), COALESCE(supplier_id::text, ''),
			COALESCE(beneficiary_id::text, ''), COALESCE(station_id::text, ''), operation_date,
			paper_ref_number, supply_bon_number, deliverer_name, deliverer_job_number,
			statement, description, reason, created_at, created_by
		FROM operations WHERE id = $1`
	var op entity.Operation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&op.ID, &op.Kind, &op.WarehouseID, &op.ToWarehouseID, &op.SupplierID,
		&op.BeneficiaryID, &op.StationID, &op.OperationDate,
		&op.PaperRefNumber, &op.SupplyBonNumber, &op.DelivererName, &op.DelivererJobNumber,
		&op.Statement, &op.Description, &op.Reason, &op.CreatedAt, &op.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT `+lineColumns+`
		FROM operation_lines WHERE operation_id = $1 ORDER BY item_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get operation lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OperationLine
		if err := rows.Scan(&l.ID, &l.OperationID, &l.ItemID, &l.Quantity, &l.ReturnedQuantity); err != nil {
			return nil, fmt.Errorf("scan operation line: %w", err)
		}
		op.Lines = append(op.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetLineByID devuelve una línea por su ID; nil si no existe.
func (r *OperationRepo) GetLineByID(id string) (*entity.OperationLine, error) {
	query := `SELECT ` + lineColumns + ` FROM operation_lines WHERE id = $1`
	return r.scanLine(query, id, "get line")
}

// LockLine bloquea la línea (operación, ítem) con SELECT FOR UPDATE; nil si no existe.
func (r *OperationRepo) LockLine(operationID, itemID string) (*entity.OperationLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM operation_lines WHERE operation_id = $1 AND item_id = $2
		FOR UPDATE`
	var l entity.OperationLine
	err := r.q.QueryRow(context.Background(), query, operationID, itemID).Scan(
		&l.ID, &l.OperationID, &l.ItemID, &l.Quantity, &l.ReturnedQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock line: %w", err)
	}
	return &l, nil
}

// LockLineByID bloquea una línea por su ID; nil si no existe.
func (r *OperationRepo) LockLineByID(id string) (*entity.OperationLine, error) {
	query := `SELECT ` + lineColumns + ` FROM operation_lines WHERE id = $1 FOR UPDATE`
	return r.scanLine(query, id, "lock line")
}

// SaveLineReturned persiste el acumulado devuelto de una línea bloqueada.
func (r *OperationRepo) SaveLineReturned(lineID string, returned decimal.Decimal) error {
	query := `UPDATE operation_lines SET returned_quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineID, returned)
	if err != nil {
		return fmt.Errorf("save line returned: %w", err)
	}
	return nil
}

// ListByKind lista operaciones de un tipo, más recientes primero.
func (r *OperationRepo) ListByKind(kind string, limit, offset int) ([]*entity.Operation, error) {
	query := `
		SELECT id, kind, warehouse_id, COALESCE(to_warehouse_id::text, ''), COALESCE(supplier_id::text, ''),
			COALESCE(beneficiary_id::text, ''), COALESCE(station_id::text, ''), operation_date,
			paper_ref_number, supply_bon_number, deliverer_name, deliverer_job_number,
			statement, description, reason, created_at, created_by
		FROM operations WHERE kind = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		var op entity.Operation
		if err := rows.Scan(
			&op.ID, &op.Kind, &op.WarehouseID, &op.ToWarehouseID, &op.SupplierID,
			&op.BeneficiaryID, &op.StationID, &op.OperationDate,
			&op.PaperRefNumber, &op.SupplyBonNumber, &op.DelivererName, &op.DelivererJobNumber,
			&op.Statement, &op.Description, &op.Reason, &op.CreatedAt, &op.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, &op)
	}
	return list, rows.Err()
}

func (r *OperationRepo) scanLine(query, id, op string) (*entity.OperationLine, error) {
	var l entity.OperationLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.OperationID, &l.ItemID, &l.Quantity, &l.ReturnedQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
