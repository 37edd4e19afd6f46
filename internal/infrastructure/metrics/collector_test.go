package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	app := fiber.New()
	app.Get("/metrics", c.Handler())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_ContadoresExpuestos(t *testing.T) {
	c := NewCollector()

	c.PublishStockChange(inventory.StockChange{
		Action:   inventory.ActionMovementRecorded,
		Movement: &entity.StockMovement{Type: entity.MovementTypeSortie},
	})
	c.PublishStockChange(inventory.StockChange{
		Action:   inventory.ActionMovementRecorded,
		Movement: &entity.StockMovement{Type: entity.MovementTypeSortie},
	})
	c.PublishStockChange(inventory.StockChange{Action: inventory.ActionAllocationReversed})
	c.ObserveRejection("insufficient_stock")
	c.ObserveAlert("sent")
	c.ObserveTxRetry()

	out := scrape(t, c)
	assert.Contains(t, out, `ledger_movements_total{type="SORTIE"} 2`)
	assert.Contains(t, out, `ledger_deallocations_total 1`)
	assert.Contains(t, out, `ledger_rejections_total{reason="insufficient_stock"} 1`)
	assert.Contains(t, out, `ledger_alerts_total{outcome="sent"} 1`)
	assert.Contains(t, out, `ledger_tx_retries_total 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestCollector_CambioSinMovimientoNoCuenta(t *testing.T) {
	c := NewCollector()
	c.PublishStockChange(inventory.StockChange{Action: inventory.ActionMovementRecorded})
	assert.NotContains(t, scrape(t, c), `ledger_movements_total{`)
}
