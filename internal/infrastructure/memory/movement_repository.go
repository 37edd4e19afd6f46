package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del ledger.
type MovementRepo struct {
	v *view
}

// Create agrega un movimiento al ledger.
func (r *MovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	return r.v.do(func(st *state) error {
		if movement.Quantity <= 0 {
			return fmt.Errorf("create stock movement: cantidad %d no positiva", movement.Quantity)
		}
		if _, ok := st.products[movement.ProductID]; !ok {
			return domain.NewNotFound("producto", movement.ProductID)
		}
		if _, ok := st.movements[movement.ID]; ok {
			return domain.ErrDuplicate
		}
		st.seq++
		st.order[movement.ID] = st.seq
		m := copyMovement(*movement)
		m.Refs = entity.MovementRefs{}
		st.movements[m.ID] = m
		return nil
	})
}

// GetByID obtiene un movimiento con referencias resueltas o nil.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.v.do(func(st *state) error {
		m, ok := st.movements[id]
		if !ok {
			return nil
		}
		resolved := resolve(st, m)
		out = &resolved
		return nil
	})
	return out, err
}

// Delete elimina un movimiento (solo la desasignación lo usa).
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.NewNotFound("movimiento", id)
		}
		delete(st.movements, id)
		delete(st.order, id)
		return nil
	})
}

// List lista movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.do(func(st *state) error {
		var matched []entity.StockMovement
		for _, m := range st.movements {
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.Type != "" && m.Type != filter.Type {
				continue
			}
			if filter.ProjectID != "" && (m.ProjectID == nil || *m.ProjectID != filter.ProjectID) {
				continue
			}
			matched = append(matched, m)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return st.order[matched[i].ID] > st.order[matched[j].ID]
		})
		for _, m := range page(matched, filter.Limit, filter.Offset) {
			resolved := resolve(st, m)
			out = append(out, &resolved)
		}
		return nil
	})
	return out, err
}

// Totals suma entradas y salidas de un producto.
func (r *MovementRepo) Totals(_ context.Context, productID string) (repository.LedgerTotals, error) {
	var totals repository.LedgerTotals
	err := r.v.do(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID != productID {
				continue
			}
			switch m.Type {
			case entity.MovementTypeEntree:
				totals.Entries += m.Quantity
			case entity.MovementTypeSortie:
				totals.Exits += m.Quantity
			}
		}
		return nil
	})
	return totals, err
}

// AttachJustificatif adjunta (o reemplaza) el documento de soporte.
func (r *MovementRepo) AttachJustificatif(_ context.Context, id string, doc entity.Justificatif) error {
	return r.v.do(func(st *state) error {
		m, ok := st.movements[id]
		if !ok {
			return domain.NewNotFound("movimiento", id)
		}
		d := doc
		m.Justificatif = &d
		st.movements[id] = m
		return nil
	})
}

func resolve(st *state, m entity.StockMovement) entity.StockMovement {
	m = copyMovement(m)
	if p, ok := st.products[m.ProductID]; ok {
		m.Refs.ProductName = p.Name
		m.Refs.ProductSKU = p.SKU
	}
	m.Refs.ActorName = st.users[m.ActorID]
	if m.SupplierID != nil {
		m.Refs.SupplierName = st.partners[*m.SupplierID]
	}
	if m.RequesterID != nil {
		m.Refs.RequesterName = st.users[*m.RequesterID]
	}
	if m.DestinationPartnerID != nil {
		m.Refs.DestinationPartnerName = st.partners[*m.DestinationPartnerID]
	}
	if m.ProjectID != nil {
		if p, ok := st.projects[*m.ProjectID]; ok {
			m.Refs.ProjectReference = p.Reference
		}
	}
	return m
}

func copyMovement(m entity.StockMovement) entity.StockMovement {
	if m.SerialNumbers != nil {
		m.SerialNumbers = append([]string(nil), m.SerialNumbers...)
	}
	if m.Justificatif != nil {
		d := *m.Justificatif
		m.Justificatif = &d
	}
	return m
}
