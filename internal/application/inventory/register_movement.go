package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos ENTREE/SORTIE de forma transaccional
// con bloqueo de fila del producto (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	hooks    Hooks
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, hooks Hooks, log zerolog.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		hooks:    hooks,
		log:      log.With().Str("component", "balance_updater").Logger(),
		now:      time.Now,
	}
}

// MovementMetadata contexto opcional de un movimiento.
// Supplier/Condition aplican a ENTREE; el resto a SORTIE.
type MovementMetadata struct {
	Comment              string
	SupplierID           *string
	Condition            string
	RequesterID          *string
	DestinationType      string
	DestinationPartnerID *string
	Destination          string
	Contact              string
	SalePrice            *decimal.Decimal
	SerialNumbers        []string
	ProjectID            *string
}

// MovementInputDTO entrada para registrar un movimiento de stock.
type MovementInputDTO struct {
	ActorID   string
	ProductID string
	Type      string
	Quantity  int64
	Metadata  MovementMetadata
}

// RegisterMovement valida la entrada, bloquea el producto, calcula el nuevo saldo y escribe
// ledger + saldo en la misma transacción. Tras el commit publica el cambio y, en SORTIE,
// delega la alerta de stock bajo (fire-and-forget).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if input.ActorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := inventory.ValidateQuantity(input.Quantity); err != nil {
		uc.hooks.reject("invalid_quantity")
		return nil, err
	}
	if !entity.IsValidMovementType(input.Type) || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Metadata.SalePrice != nil && input.Metadata.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var (
		created  *entity.StockMovement
		snapshot entity.Product
		balance  int64
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto para evitar que dos salidas validen contra el mismo saldo
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFound("producto", input.ProductID)
		}
		newBalance, err := inventory.ApplyMovement(product, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(ctx, product.ID, newBalance); err != nil {
			return err
		}
		mov := uc.buildMovement(input)
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		created, err = movRepo.GetByID(ctx, mov.ID)
		if err != nil {
			return err
		}
		if created == nil {
			created = mov
		}
		// El umbral se lee aquí, dentro de la tx: nunca se usa un valor cacheado
		snapshot = *product
		snapshot.Quantity = newBalance
		balance = newBalance
		return nil
	})
	if err != nil {
		uc.observeFailure(err)
		return nil, err
	}

	uc.log.Debug().
		Str("movement_id", created.ID).
		Str("product_id", created.ProductID).
		Str("type", created.Type).
		Int64("quantity", created.Quantity).
		Int64("balance", balance).
		Msg("movimiento registrado")

	uc.hooks.publish(StockChange{
		Action:    ActionMovementRecorded,
		Movement:  created,
		ProductID: created.ProductID,
		Balance:   balance,
	})
	if created.Type == entity.MovementTypeSortie {
		uc.hooks.alert(snapshot, balance)
	}
	return created, nil
}

func (uc *RegisterMovementUseCase) buildMovement(input MovementInputDTO) *entity.StockMovement {
	md := input.Metadata
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		Type:      input.Type,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		ActorID:   input.ActorID,
		Comment:   md.Comment,
		CreatedAt: uc.now().UTC(),
	}
	switch input.Type {
	case entity.MovementTypeEntree:
		mov.SupplierID = md.SupplierID
		mov.Condition = md.Condition
	case entity.MovementTypeSortie:
		mov.RequesterID = md.RequesterID
		mov.DestinationType = md.DestinationType
		mov.DestinationPartnerID = md.DestinationPartnerID
		mov.Destination = md.Destination
		mov.Contact = md.Contact
		mov.SalePrice = md.SalePrice
		mov.SerialNumbers = md.SerialNumbers
		mov.ProjectID = md.ProjectID
	}
	return mov
}

func (uc *RegisterMovementUseCase) observeFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		uc.hooks.reject("insufficient_stock")
	case errors.Is(err, domain.ErrNotFound):
		uc.hooks.reject("not_found")
	case errors.Is(err, domain.ErrConflict):
		uc.hooks.reject("conflict")
	}
}
