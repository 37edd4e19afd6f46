package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RegisterMovement(ctx, MovementInputDTO{
		ActorID:   actorID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  int64(in.Quantity),
		Metadata: MovementMetadata{
			Comment:              in.Comment,
			SupplierID:           in.SupplierID,
			Condition:            in.Condition,
			RequesterID:          in.RequesterID,
			DestinationType:      in.DestinationType,
			DestinationPartnerID: in.DestinationPartnerID,
			Destination:          in.Destination,
			Contact:              in.Contact,
			SalePrice:            in.SalePrice,
			SerialNumbers:        in.SerialNumbers,
		},
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// AllocateFromRequest adapta el request HTTP de asignación de material a un proyecto.
func (uc *AllocationUseCase) AllocateFromRequest(ctx context.Context, actorID, projectID string, in dto.AllocateMaterialRequest) (*dto.MovementResponse, error) {
	mov, err := uc.AllocateToProject(ctx, actorID, projectID, in.ProductID, int64(in.Quantity))
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ToMovementResponse convierte un movimiento del ledger en su DTO de salida.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:                     m.ID,
		Type:                   m.Type,
		Quantity:               m.Quantity,
		CreatedAt:              m.CreatedAt,
		Comment:                m.Comment,
		ProductID:              m.ProductID,
		ProductName:            m.Refs.ProductName,
		ProductSKU:             m.Refs.ProductSKU,
		ActorID:                m.ActorID,
		ActorName:              m.Refs.ActorName,
		SupplierID:             m.SupplierID,
		SupplierName:           m.Refs.SupplierName,
		Condition:              m.Condition,
		RequesterID:            m.RequesterID,
		RequesterName:          m.Refs.RequesterName,
		DestinationType:        m.DestinationType,
		DestinationPartnerID:   m.DestinationPartnerID,
		DestinationPartnerName: m.Refs.DestinationPartnerName,
		Destination:            m.Destination,
		Contact:                m.Contact,
		SalePrice:              m.SalePrice,
		SerialNumbers:          m.SerialNumbers,
		ProjectID:              m.ProjectID,
		ProjectReference:       m.Refs.ProjectReference,
	}
	if m.Justificatif != nil {
		out.Justificatif = &dto.JustificatifResponse{
			FileName:    m.Justificatif.FileName,
			StoragePath: m.Justificatif.StoragePath,
			MimeType:    m.Justificatif.MimeType,
			AttachedAt:  m.Justificatif.AttachedAt,
		}
	}
	return out
}
