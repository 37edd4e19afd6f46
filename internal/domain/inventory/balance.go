package inventory

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ValidateQuantity rechaza cantidades nulas o negativas (antes de tocar la BD).
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ApplyMovement calcula el nuevo saldo de un producto (servicio de dominio).
// NuevoSaldo = saldo + cantidad (ENTREE) | saldo − cantidad (SORTIE); una salida nunca deja saldo negativo.
func ApplyMovement(product *entity.Product, movementType string, quantity int64) (int64, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return 0, err
	}
	switch movementType {
	case entity.MovementTypeEntree:
		return addQuantity(product.Quantity, quantity)
	case entity.MovementTypeSortie:
		if quantity > product.Quantity {
			return 0, &domain.InsufficientStockError{
				ProductID: product.ID,
				Available: product.Quantity,
				Requested: quantity,
			}
		}
		return product.Quantity - quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// ReverseAllocation devuelve el saldo tras anular una salida (la cantidad vuelve al stock).
func ReverseAllocation(product *entity.Product, movement *entity.StockMovement) (int64, error) {
	if !movement.IsAllocation() {
		return 0, domain.ErrInvalidInput
	}
	return addQuantity(product.Quantity, movement.Quantity)
}

// addQuantity suma al saldo rechazando cantidades que desbordarían int64.
func addQuantity(balance, quantity int64) (int64, error) {
	if quantity > math.MaxInt64-balance {
		return 0, domain.ErrInvalidQuantity
	}
	return balance + quantity, nil
}

// BelowThreshold reporta si el saldo quedó en o bajo el umbral de alerta.
// Sin umbral configurado nunca alerta.
func BelowThreshold(product *entity.Product, newBalance int64) bool {
	if !product.HasThreshold() {
		return false
	}
	return newBalance <= *product.AlertThreshold
}
