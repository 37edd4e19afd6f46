package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la fila del ledger y el saldo del producto se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// AlertNotifier evalúa el umbral tras una SORTIE confirmada. No bloquea ni devuelve error:
// un fallo de envío nunca afecta al movimiento.
type AlertNotifier interface {
	MaybeAlert(product entity.Product, newBalance int64)
}

// Acciones publicadas tras un cambio de saldo.
const (
	ActionMovementRecorded   = "movement_recorded"
	ActionAllocationReversed = "allocation_reversed"
)

// StockChange cambio de saldo ya confirmado.
type StockChange struct {
	Action    string
	Movement  *entity.StockMovement
	ProductID string
	Balance   int64
}

// StockEventPublisher recibe los cambios de saldo fuera de la transacción (best effort).
type StockEventPublisher interface {
	PublishStockChange(change StockChange)
}

// RejectionObserver cuenta los movimientos rechazados por motivo.
type RejectionObserver interface {
	ObserveRejection(reason string)
}

// Publishers reparte un cambio entre varios publicadores.
type Publishers []StockEventPublisher

// PublishStockChange implementa StockEventPublisher.
func (ps Publishers) PublishStockChange(change StockChange) {
	for _, p := range ps {
		if p != nil {
			p.PublishStockChange(change)
		}
	}
}

// Hooks efectos posteriores al commit; todos opcionales.
type Hooks struct {
	Notifier   AlertNotifier
	Publisher  StockEventPublisher
	Rejections RejectionObserver
}

func (h Hooks) publish(change StockChange) {
	if h.Publisher != nil {
		h.Publisher.PublishStockChange(change)
	}
}

func (h Hooks) reject(reason string) {
	if h.Rejections != nil {
		h.Rejections.ObserveRejection(reason)
	}
}

func (h Hooks) alert(product entity.Product, newBalance int64) {
	if h.Notifier != nil {
		h.Notifier.MaybeAlert(product, newBalance)
	}
}
