package entity

import "time"

// Supplier representa un proveedor (contraparte de un suministro).
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Beneficiary representa un beneficiario (contraparte de un despacho).
type Beneficiary struct {
	ID        string
	Name      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Station representa una estación asociada a los suministros.
type Station struct {
	ID        string
	Name      string
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
