package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	v *view
}

// Create persiste un producto nuevo; el SKU es único.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = copyProduct(*product)
		return nil
	})
}

// GetByID obtiene un producto por ID o nil.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			c := copyProduct(p)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetBySKU obtiene un producto por SKU o nil.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				c := copyProduct(p)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el mutex de Run ya serializa la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update actualiza nombre y umbral. No modifica Quantity.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.v.do(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		p.Name = product.Name
		p.AlertThreshold = copyThreshold(product.AlertThreshold)
		p.UpdatedAt = product.UpdatedAt
		st.products[p.ID] = p
		return nil
	})
}

// UpdateQuantity fija el saldo del producto (solo desde el motor del ledger).
func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	return r.v.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NewNotFound("producto", id)
		}
		if quantity < 0 {
			return fmt.Errorf("update product quantity: saldo negativo %d", quantity)
		}
		p.Quantity = quantity
		st.products[id] = p
		return nil
	})
}

// List lista productos ordenados por SKU.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(func(st *state) error {
		all := make([]entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, copyProduct(p))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		for _, p := range page(all, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// ListBelowThreshold productos con saldo en o bajo su umbral, mayor déficit primero.
func (r *ProductRepo) ListBelowThreshold(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(func(st *state) error {
		var low []entity.Product
		for _, p := range st.products {
			if p.AlertThreshold != nil && p.Quantity <= *p.AlertThreshold {
				low = append(low, copyProduct(p))
			}
		}
		sort.Slice(low, func(i, j int) bool {
			di := *low[i].AlertThreshold - low[i].Quantity
			dj := *low[j].AlertThreshold - low[j].Quantity
			if di != dj {
				return di > dj
			}
			return low[i].SKU < low[j].SKU
		})
		for _, p := range page(low, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func copyProduct(p entity.Product) entity.Product {
	p.AlertThreshold = copyThreshold(p.AlertThreshold)
	return p
}

func copyThreshold(t *int64) *int64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
