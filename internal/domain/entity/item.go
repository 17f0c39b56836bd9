package entity

import "time"

// Item representa un artículo fungible del inventario. Nunca se elimina una
// vez referenciado por una línea posteada; se desactiva (soft delete).
type Item struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
