package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.BeneficiaryRepository = (*BeneficiaryRepo)(nil)
	_ repository.StationRepository     = (*StationRepo)(nil)
)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.Phone, supplier.IsActive,
		supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, name, phone, is_active, created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, phone = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.Phone, supplier.IsActive, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, name, phone, is_active, created_at, updated_at
		FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// BeneficiaryRepo implementación de BeneficiaryRepository sobre PostgreSQL.
type BeneficiaryRepo struct {
	q Querier
}

// NewBeneficiaryRepository construye el adaptador.
func NewBeneficiaryRepository(q Querier) *BeneficiaryRepo {
	return &BeneficiaryRepo{q: q}
}

func (r *BeneficiaryRepo) Create(beneficiary *entity.Beneficiary) error {
	query := `
		INSERT INTO beneficiaries (id, name, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		beneficiary.ID, beneficiary.Name, beneficiary.Phone, beneficiary.IsActive,
		beneficiary.CreatedAt, beneficiary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	return nil
}

func (r *BeneficiaryRepo) GetByID(id string) (*entity.Beneficiary, error) {
	query := `
		SELECT id, name, phone, is_active, created_at, updated_at
		FROM beneficiaries WHERE id = $1`
	var b entity.Beneficiary
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	return &b, nil
}

func (r *BeneficiaryRepo) Update(beneficiary *entity.Beneficiary) error {
	query := `
		UPDATE beneficiaries SET name = $2, phone = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		beneficiary.ID, beneficiary.Name, beneficiary.Phone, beneficiary.IsActive, beneficiary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	return nil
}

func (r *BeneficiaryRepo) List(limit, offset int) ([]*entity.Beneficiary, error) {
	query := `
		SELECT id, name, phone, is_active, created_at, updated_at
		FROM beneficiaries ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Beneficiary
	for rows.Next() {
		var b entity.Beneficiary
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// StationRepo implementación de StationRepository sobre PostgreSQL.
type StationRepo struct {
	q Querier
}

// NewStationRepository construye el adaptador.
func NewStationRepository(q Querier) *StationRepo {
	return &StationRepo{q: q}
}

func (r *StationRepo) Create(station *entity.Station) error {
	query := `
		INSERT INTO stations (id, name, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		station.ID, station.Name, station.Location, station.IsActive,
		station.CreatedAt, station.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert station: %w", err)
	}
	return nil
}

func (r *StationRepo) GetByID(id string) (*entity.Station, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM stations WHERE id = $1`
	var s entity.Station
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Location, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get station: %w", err)
	}
	return &s, nil
}

func (r *StationRepo) Update(station *entity.Station) error {
	query := `
		UPDATE stations SET name = $2, location = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		station.ID, station.Name, station.Location, station.IsActive, station.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update station: %w", err)
	}
	return nil
}

func (r *StationRepo) List(limit, offset int) ([]*entity.Station, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM stations ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Station
	for rows.Next() {
		var s entity.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
