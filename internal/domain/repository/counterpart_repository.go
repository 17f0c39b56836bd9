package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	List(limit, offset int) ([]*entity.Supplier, error)
}

// BeneficiaryRepository define el puerto de persistencia para beneficiarios.
type BeneficiaryRepository interface {
	Create(beneficiary *entity.Beneficiary) error
	GetByID(id string) (*entity.Beneficiary, error)
	Update(beneficiary *entity.Beneficiary) error
	List(limit, offset int) ([]*entity.Beneficiary, error)
}

// StationRepository define el puerto de persistencia para estaciones.
type StationRepository interface {
	Create(station *entity.Station) error
	GetByID(id string) (*entity.Station, error)
	Update(station *entity.Station) error
	List(limit, offset int) ([]*entity.Station, error)
}
