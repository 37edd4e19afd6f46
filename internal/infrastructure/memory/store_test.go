package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func seed(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.AddUser("u1", "Léa Girard")
	s.AddPartner("sup1", "Rexel")
	s.AddProject(entity.Project{ID: "pr1", Reference: "PRJ-1"})
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{ID: "p1", SKU: "A-1", Name: "Gaine"}))
	return s
}

func TestRun_RestauraSnapshotSiFalla(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		require.NoError(t, productRepo.UpdateQuantity(ctx, "p1", 9))
		require.NoError(t, movRepo.Create(ctx, &entity.StockMovement{
			ID: "m1", Type: entity.MovementTypeEntree, ProductID: "p1", Quantity: 9, ActorID: "u1", CreatedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, p.Quantity)
	m, err := s.Movements().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, func(repository.StockMovementRepository, repository.ProductRepository) error {
		t.Fatal("no debe ejecutarse")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMovementRepo_ResuelveReferenciasYOrdena(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	sup := "sup1"
	proj := "pr1"
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{
		ID: "m1", Type: entity.MovementTypeEntree, ProductID: "p1", Quantity: 5, ActorID: "u1", SupplierID: &sup, CreatedAt: at,
	}))
	require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{
		ID: "m2", Type: entity.MovementTypeSortie, ProductID: "p1", Quantity: 2, ActorID: "u1", ProjectID: &proj, CreatedAt: at,
	}))

	list, err := s.Movements().List(ctx, repository.MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID, "misma fecha: gana el último insertado")
	assert.Equal(t, "PRJ-1", list[0].Refs.ProjectReference)
	assert.Equal(t, "Rexel", list[1].Refs.SupplierName)
	assert.Equal(t, "Léa Girard", list[1].Refs.ActorName)
	assert.Equal(t, "Gaine", list[1].Refs.ProductName)

	totals, err := s.Movements().Totals(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, repository.LedgerTotals{Entries: 5, Exits: 2}, totals)
}

func TestMovementRepo_Restricciones(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	err := s.Movements().Create(ctx, &entity.StockMovement{ID: "m1", Type: entity.MovementTypeEntree, ProductID: "p1", Quantity: 0})
	assert.Error(t, err)
	err = s.Movements().Create(ctx, &entity.StockMovement{ID: "m1", Type: entity.MovementTypeEntree, ProductID: "px", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Movements().Delete(ctx, "nada"), domain.ErrNotFound)
	assert.Error(t, s.Products().UpdateQuantity(ctx, "p1", -1))
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "A-1"}), domain.ErrDuplicate)
}

// Con un único mutex las transacciones de productos distintos se serializan sin perder escrituras.
func TestRun_ProductosDistintosSinPerderEscrituras(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "A-2", Name: "Boîte"}))

	const perProduct = 50
	var wg sync.WaitGroup
	for _, id := range []string{"p1", "p2"} {
		for i := 0; i < perProduct; i++ {
			wg.Add(1)
			go func(productID string, n int) {
				defer wg.Done()
				err := s.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
					p, err := productRepo.GetForUpdate(ctx, productID)
					if err != nil {
						return err
					}
					if err := productRepo.UpdateQuantity(ctx, productID, p.Quantity+1); err != nil {
						return err
					}
					return movRepo.Create(ctx, &entity.StockMovement{
						ID: fmt.Sprintf("%s-%d", productID, n), Type: entity.MovementTypeEntree,
						ProductID: productID, Quantity: 1, ActorID: "u1", CreatedAt: time.Now(),
					})
				})
				assert.NoError(t, err)
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range []string{"p1", "p2"} {
		p, err := s.Products().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(perProduct), p.Quantity, id)
		totals, err := s.Movements().Totals(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(perProduct), totals.Entries, id)
	}
}
