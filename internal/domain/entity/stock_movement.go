package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeEntree = "ENTREE" // entrada: suma al saldo
	MovementTypeSortie = "SORTIE" // salida: resta del saldo
)

// IsValidMovementType reporta si t es ENTREE o SORTIE.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntree || t == MovementTypeSortie
}

// StockMovement es una entrada inmutable del ledger. Solo el justificativo puede adjuntarse
// después de creada; el registro se elimina únicamente al revertir una asignación.
type StockMovement struct {
	ID        string
	Type      string
	ProductID string
	Quantity  int64 // siempre > 0; el signo lo da Type
	ActorID   string
	Comment   string
	CreatedAt time.Time

	// Entrada
	SupplierID *string
	Condition  string

	// Salida
	RequesterID          *string
	DestinationType      string
	DestinationPartnerID *string
	Destination          string
	Contact              string
	SalePrice            *decimal.Decimal
	SerialNumbers        []string
	ProjectID            *string

	Justificatif *Justificatif

	// Referencias resueltas (solo lectura, vía JOIN)
	Refs MovementRefs
}

// Justificatif metadatos del documento de soporte adjunto al movimiento.
type Justificatif struct {
	FileName    string
	StoragePath string
	MimeType    string
	AttachedAt  time.Time
}

// MovementRefs nombres legibles de las referencias del movimiento.
type MovementRefs struct {
	ProductName            string
	ProductSKU             string
	ActorName              string
	SupplierName           string
	RequesterName          string
	DestinationPartnerName string
	ProjectReference       string
}

// IsAllocation indica si el movimiento es una salida asignada a un proyecto.
func (m *StockMovement) IsAllocation() bool {
	return m.Type == MovementTypeSortie && m.ProjectID != nil && *m.ProjectID != ""
}

// SignedQuantity devuelve la cantidad con signo: positiva en ENTREE, negativa en SORTIE.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Type == MovementTypeSortie {
		return -m.Quantity
	}
	return m.Quantity
}
