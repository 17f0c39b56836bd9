package entity

import "time"

// Warehouse representa una bodega de almacenamiento. ParentID forma una
// jerarquía solo para reportes; StorekeeperID es el operario responsable
// (usado por la autorización, no por el motor de saldos).
type Warehouse struct {
	ID            string
	Name          string
	Classification string
	Phone         string
	ParentID      string
	StorekeeperID string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
