package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Quantity cantidad entera de un movimiento. Un número no entero se rechaza como cantidad inválida
// y no como cuerpo mal formado.
type Quantity int64

// UnmarshalJSON acepta solo enteros JSON.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return domain.ErrInvalidQuantity
	}
	v, err := n.Int64()
	if err != nil {
		return domain.ErrInvalidQuantity
	}
	*q = Quantity(v)
	return nil
}

// MovementMetadataRequest metadatos de contexto de un movimiento (entrada o salida).
type MovementMetadataRequest struct {
	Comment              string           `json:"comment" validate:"max=1000"`
	SupplierID           *string          `json:"supplier_id,omitempty"`
	Condition            string           `json:"condition,omitempty" validate:"max=50"`
	RequesterID          *string          `json:"requester_id,omitempty"`
	DestinationType      string           `json:"destination_type,omitempty" validate:"max=50"`
	DestinationPartnerID *string          `json:"destination_partner_id,omitempty"`
	Destination          string           `json:"destination,omitempty" validate:"max=255"`
	Contact              string           `json:"contact,omitempty" validate:"max=255"`
	SalePrice            *decimal.Decimal `json:"sale_price,omitempty"`
	SerialNumbers        []string         `json:"serial_numbers,omitempty" validate:"omitempty,dive,min=1,max=100"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Type      string   `json:"type" validate:"required,oneof=ENTREE SORTIE"`
	Quantity  Quantity `json:"quantity"`
	MovementMetadataRequest
}

// AllocateMaterialRequest body para POST /api/projects/:id/materials.
type AllocateMaterialRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Quantity  Quantity `json:"quantity"`
}

// AttachJustificatifRequest body para PUT /api/inventory/movements/:id/justificatif.
type AttachJustificatifRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	StoragePath string `json:"storage_path" validate:"required,max=500"`
	MimeType    string `json:"mime_type" validate:"max=100"`
}

// JustificatifResponse documento de soporte adjunto.
type JustificatifResponse struct {
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	MimeType    string    `json:"mime_type,omitempty"`
	AttachedAt  time.Time `json:"attached_at"`
}

// MovementResponse salida de un movimiento del ledger con referencias resueltas.
type MovementResponse struct {
	ID                     string                `json:"id"`
	Type                   string                `json:"type"`
	Quantity               int64                 `json:"quantity"`
	CreatedAt              time.Time             `json:"created_at"`
	Comment                string                `json:"comment,omitempty"`
	ProductID              string                `json:"product_id"`
	ProductName            string                `json:"product_name"`
	ProductSKU             string                `json:"product_sku"`
	ActorID                string                `json:"actor_id"`
	ActorName              string                `json:"actor_name,omitempty"`
	SupplierID             *string               `json:"supplier_id,omitempty"`
	SupplierName           string                `json:"supplier_name,omitempty"`
	Condition              string                `json:"condition,omitempty"`
	RequesterID            *string               `json:"requester_id,omitempty"`
	RequesterName          string                `json:"requester_name,omitempty"`
	DestinationType        string                `json:"destination_type,omitempty"`
	DestinationPartnerID   *string               `json:"destination_partner_id,omitempty"`
	DestinationPartnerName string                `json:"destination_partner_name,omitempty"`
	Destination            string                `json:"destination,omitempty"`
	Contact                string                `json:"contact,omitempty"`
	SalePrice              *decimal.Decimal      `json:"sale_price,omitempty"`
	SerialNumbers          []string              `json:"serial_numbers,omitempty"`
	ProjectID              *string               `json:"project_id,omitempty"`
	ProjectReference       string                `json:"project_reference,omitempty"`
	Justificatif           *JustificatifResponse `json:"justificatif,omitempty"`
}

// MovementListResponse lista paginada del ledger (más reciente primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceCheckResponse resultado de la auditoría de conservación de un producto.
type BalanceCheckResponse struct {
	ProductID  string `json:"product_id"`
	Recorded   int64  `json:"recorded"`
	Computed   int64  `json:"computed"`
	Entries    int64  `json:"entries"`
	Exits      int64  `json:"exits"`
	Consistent bool   `json:"consistent"`
}

// LowStockItemDTO producto en o bajo su umbral de alerta.
type LowStockItemDTO struct {
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int64  `json:"quantite"`
	AlertThreshold int64  `json:"seuil_alerte"`
	Deficit        int64  `json:"deficit"` // AlertThreshold - Quantity
}
