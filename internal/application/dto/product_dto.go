package dto

import "time"

// CreateProductRequest entrada para crear un producto. El saldo siempre inicia en 0.
type CreateProductRequest struct {
	SKU            string `json:"sku" validate:"required,min=1,max=100"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	AlertThreshold *int64 `json:"alert_threshold" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	AlertThreshold *int64  `json:"alert_threshold" validate:"omitempty,min=0"`
	ClearThreshold bool    `json:"clear_threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Quantity       int64     `json:"quantite"`
	AlertThreshold *int64    `json:"seuil_alerte"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
