package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Límites de página por defecto del ledger.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// LedgerUseCase consultas de solo lectura sobre el ledger y adjunto de justificativos.
// El ledger no tiene operación de actualización.
type LedgerUseCase struct {
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
	projectRepo  repository.ProjectRepository
	defaultLimit int
	maxLimit     int
}

// NewLedgerUseCase construye el caso de uso. Límites <= 0 usan los valores por defecto.
func NewLedgerUseCase(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	projectRepo repository.ProjectRepository,
	defaultLimit, maxLimit int,
) *LedgerUseCase {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &LedgerUseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		projectRepo:  projectRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ListMovements lista movimientos del más reciente al más antiguo, filtrando por producto, tipo o proyecto.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Type != "" && !entity.IsValidMovementType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize(uc.defaultLimit, uc.maxLimit)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetProductHistory historial de auditoría de un producto (el producto debe existir).
func (uc *LedgerUseCase) GetProductHistory(ctx context.Context, productID string, limit, offset int) (*dto.MovementListResponse, error) {
	if _, err := uc.mustProduct(ctx, productID); err != nil {
		return nil, err
	}
	return uc.ListMovements(ctx, repository.MovementFilter{ProductID: productID, Limit: limit, Offset: offset})
}

// ListProjectAllocations lista las salidas asignadas a un proyecto.
func (uc *LedgerUseCase) ListProjectAllocations(ctx context.Context, projectID string, limit, offset int) (*dto.MovementListResponse, error) {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NewNotFound("proyecto", projectID)
	}
	return uc.ListMovements(ctx, repository.MovementFilter{
		ProjectID: project.ID,
		Type:      entity.MovementTypeSortie,
		Limit:     limit,
		Offset:    offset,
	})
}

// VerifyBalance compara el saldo guardado con Σ ENTREE − Σ SORTIE del ledger.
func (uc *LedgerUseCase) VerifyBalance(ctx context.Context, productID string) (*dto.BalanceCheckResponse, error) {
	product, err := uc.mustProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	totals, err := uc.movRepo.Totals(ctx, productID)
	if err != nil {
		return nil, err
	}
	computed := totals.Entries - totals.Exits
	return &dto.BalanceCheckResponse{
		ProductID:  product.ID,
		Recorded:   product.Quantity,
		Computed:   computed,
		Entries:    totals.Entries,
		Exits:      totals.Exits,
		Consistent: computed == product.Quantity,
	}, nil
}

// ListLowStock productos con umbral configurado cuyo saldo está en o bajo el umbral.
func (uc *LedgerUseCase) ListLowStock(ctx context.Context, limit, offset int) ([]dto.LowStockItemDTO, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.Normalize(uc.defaultLimit, uc.maxLimit)
	list, err := uc.productRepo.ListBelowThreshold(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(list))
	for _, p := range list {
		if !p.HasThreshold() {
			continue
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Quantity:       p.Quantity,
			AlertThreshold: *p.AlertThreshold,
			Deficit:        *p.AlertThreshold - p.Quantity,
		})
	}
	return items, nil
}

// AttachJustificatif adjunta el documento de soporte: única modificación permitida sobre un movimiento.
func (uc *LedgerUseCase) AttachJustificatif(ctx context.Context, actorID, movementID string, in dto.AttachJustificatifRequest) (*dto.MovementResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if in.FileName == "" || in.StoragePath == "" {
		return nil, domain.ErrInvalidInput
	}
	mov, err := uc.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.NewNotFound("movimiento", movementID)
	}
	doc := entity.Justificatif{
		FileName:    in.FileName,
		StoragePath: in.StoragePath,
		MimeType:    in.MimeType,
		AttachedAt:  time.Now().UTC(),
	}
	if err := uc.movRepo.AttachJustificatif(ctx, movementID, doc); err != nil {
		return nil, err
	}
	mov.Justificatif = &doc
	return ToMovementResponse(mov), nil
}

func (uc *LedgerUseCase) mustProduct(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	return product, nil
}
