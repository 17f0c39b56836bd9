package dto

import "time"

// CreateItemRequest alta de un ítem del inventario.
type CreateItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateItemRequest actualización parcial de un ítem. IsActive=false lo
// congela para nuevas operaciones sin borrarlo.
type UpdateItemRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// ItemResponse representación de un ítem.
type ItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateWarehouseRequest alta de una bodega.
type CreateWarehouseRequest struct {
	Name           string `json:"name" validate:"required"`
	Classification string `json:"classification"`
	Phone          string `json:"phone"`
	ParentID       string `json:"parent_id"`
	StorekeeperID  string `json:"storekeeper_id"`
}

// UpdateWarehouseRequest actualización parcial de una bodega.
type UpdateWarehouseRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	StorekeeperID *string `json:"storekeeper_id"`
	IsActive      *bool   `json:"is_active"`
}

// WarehouseResponse representación de una bodega.
type WarehouseResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Classification string    `json:"classification"`
	Phone          string    `json:"phone"`
	ParentID       string    `json:"parent_id,omitempty"`
	StorekeeperID  string    `json:"storekeeper_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WarehouseListResponse listado paginado de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateCounterpartRequest alta de proveedor, beneficiario o estación.
type CreateCounterpartRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Location string `json:"location"` // solo estaciones
}

// UpdateCounterpartRequest actualización parcial de una contraparte.
type UpdateCounterpartRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// CounterpartResponse representación de proveedor/beneficiario/estación.
type CounterpartResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CounterpartListResponse listado paginado de contrapartes.
type CounterpartListResponse struct {
	Items []CounterpartResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
