package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func threshold(v int64) *int64 { return &v }

func TestApplyMovement_Entree(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: 0}
	got, err := inventory.ApplyMovement(p, entity.MovementTypeEntree, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
}

func TestApplyMovement_SortieExactaDejaCero(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: 7}
	got, err := inventory.ApplyMovement(p, entity.MovementTypeSortie, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestApplyMovement_SortieMayorAlSaldo(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: 7}
	_, err := inventory.ApplyMovement(p, entity.MovementTypeSortie, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(7), stockErr.Available)
	assert.Equal(t, int64(8), stockErr.Requested)
}

func TestApplyMovement_CantidadInvalida(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: 7}
	for _, q := range []int64{0, -1, -50} {
		_, err := inventory.ApplyMovement(p, entity.MovementTypeEntree, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %d", q)
	}
}

func TestApplyMovement_TipoDesconocido(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: 7}
	_, err := inventory.ApplyMovement(p, "AJUSTE", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReverseAllocation(t *testing.T) {
	project := "prj-1"
	p := &entity.Product{ID: "p1", Quantity: 0}
	mov := &entity.StockMovement{Type: entity.MovementTypeSortie, Quantity: 3, ProjectID: &project}

	got, err := inventory.ReverseAllocation(p, mov)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	entree := &entity.StockMovement{Type: entity.MovementTypeEntree, Quantity: 3}
	_, err = inventory.ReverseAllocation(p, entree)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBelowThreshold(t *testing.T) {
	cases := []struct {
		name      string
		threshold *int64
		balance   int64
		want      bool
	}{
		{"sin umbral", nil, 0, false},
		{"igual al umbral", threshold(5), 5, true},
		{"bajo el umbral", threshold(5), 2, true},
		{"sobre el umbral", threshold(5), 15, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &entity.Product{ID: "p1", AlertThreshold: tc.threshold}
			assert.Equal(t, tc.want, inventory.BelowThreshold(p, tc.balance))
		})
	}
}

func TestApplyMovement_EntreeDesbordaSaldo(t *testing.T) {
	p := &entity.Product{ID: "p1", Quantity: math.MaxInt64}
	_, err := inventory.ApplyMovement(p, entity.MovementTypeEntree, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	p.Quantity = 10
	_, err = inventory.ApplyMovement(p, entity.MovementTypeEntree, math.MaxInt64-9)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, err := inventory.ApplyMovement(p, entity.MovementTypeEntree, math.MaxInt64-10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestReverseAllocation_Desborde(t *testing.T) {
	project := "prj-1"
	p := &entity.Product{ID: "p1", Quantity: math.MaxInt64}
	mov := &entity.StockMovement{Type: entity.MovementTypeSortie, Quantity: 1, ProjectID: &project}
	_, err := inventory.ReverseAllocation(p, mov)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
