package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AllocationUseCase asigna material a proyectos (SORTIE etiquetada) y revierte asignaciones.
type AllocationUseCase struct {
	txRunner    TxRunner
	movements   *RegisterMovementUseCase
	projectRepo repository.ProjectRepository
	hooks       Hooks
	log         zerolog.Logger
}

// NewAllocationUseCase construye el caso de uso. Los hooks deben ser los mismos del RegisterMovementUseCase.
func NewAllocationUseCase(
	txRunner TxRunner,
	movements *RegisterMovementUseCase,
	projectRepo repository.ProjectRepository,
	hooks Hooks,
	log zerolog.Logger,
) *AllocationUseCase {
	return &AllocationUseCase{
		txRunner:    txRunner,
		movements:   movements,
		projectRepo: projectRepo,
		hooks:       hooks,
		log:         log.With().Str("component", "allocation_manager").Logger(),
	}
}

// AllocateToProject consume stock para un proyecto: SORTIE con el ID del proyecto y un comentario por defecto.
func (uc *AllocationUseCase) AllocateToProject(ctx context.Context, actorID, projectID, productID string, quantity int64) (*entity.StockMovement, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := inventory.ValidateQuantity(quantity); err != nil {
		uc.hooks.reject("invalid_quantity")
		return nil, err
	}
	if projectID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NewNotFound("proyecto", projectID)
	}

	pid := project.ID
	return uc.movements.RegisterMovement(ctx, MovementInputDTO{
		ActorID:   actorID,
		ProductID: productID,
		Type:      entity.MovementTypeSortie,
		Quantity:  quantity,
		Metadata: MovementMetadata{
			Comment:         fmt.Sprintf("Affectation au projet %s", project.DisplayName()),
			DestinationType: "PROJET",
			ProjectID:       &pid,
		},
	})
}

// Deallocate revierte por completo una asignación: devuelve la cantidad al producto y elimina
// la fila del ledger en la misma transacción. No existen devoluciones parciales.
func (uc *AllocationUseCase) Deallocate(ctx context.Context, actorID, movementID string) error {
	if actorID == "" {
		return domain.ErrUnauthenticated
	}
	if movementID == "" {
		return domain.ErrInvalidInput
	}

	var (
		removed *entity.StockMovement
		balance int64
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, err := movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.NewNotFound("movimiento", movementID)
		}
		if !mov.IsAllocation() {
			return domain.ErrInvalidInput
		}
		// El DELETE toma el lock de la fila: una reversión concurrente espera y luego no la encuentra
		if err := movRepo.Delete(ctx, mov.ID); err != nil {
			return err
		}
		product, err := productRepo.GetForUpdate(ctx, mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFound("producto", mov.ProductID)
		}
		newBalance, err := inventory.ReverseAllocation(product, mov)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(ctx, product.ID, newBalance); err != nil {
			return err
		}
		removed = mov
		balance = newBalance
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("movement_id", removed.ID).
		Str("product_id", removed.ProductID).
		Str("actor_id", actorID).
		Int64("quantity", removed.Quantity).
		Int64("balance", balance).
		Msg("asignación revertida")

	uc.hooks.publish(StockChange{
		Action:    ActionAllocationReversed,
		Movement:  removed,
		ProductID: removed.ProductID,
		Balance:   balance,
	})
	return nil
}
