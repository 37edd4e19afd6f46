package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros para listar el ledger. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	Type      string
	ProjectID string
	Limit     int
	Offset    int
}

// LedgerTotals sumas de cantidades del ledger para un producto.
type LedgerTotals struct {
	Entries int64
	Exits   int64
}

// StockMovementRepository define el puerto de persistencia del ledger. No existe Update:
// el ledger es de solo inserción salvo el justificativo y la eliminación por desasignación.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// GetByID devuelve el movimiento con sus referencias resueltas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	Totals(ctx context.Context, productID string) (LedgerTotals, error)
	AttachJustificatif(ctx context.Context, id string, doc entity.Justificatif) error
}
