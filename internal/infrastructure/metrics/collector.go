package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
)

var (
	_ inventory.StockEventPublisher = (*Collector)(nil)
	_ inventory.RejectionObserver   = (*Collector)(nil)
	_ alert.Observer                = (*Collector)(nil)
	_ postgres.RetryObserver        = (*Collector)(nil)
)

// Collector contadores del ledger expuestos en /metrics.
type Collector struct {
	registry      *prometheus.Registry
	movements     *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	deallocations prometheus.Counter
	alerts        *prometheus.CounterVec
	txRetries     prometheus.Counter
}

// NewCollector registra los contadores en un registro propio (más los collectors de proceso y Go).
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "Movimientos confirmados por tipo.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_rejections_total",
			Help: "Movimientos rechazados por motivo.",
		}, []string{"reason"}),
		deallocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_deallocations_total",
			Help: "Asignaciones a proyecto revertidas.",
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_alerts_total",
			Help: "Alertas de stock bajo por resultado.",
		}, []string{"outcome"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_tx_retries_total",
			Help: "Transacciones reintentadas por serialización o deadlock.",
		}),
	}
	reg.MustRegister(
		c.movements, c.rejections, c.deallocations, c.alerts, c.txRetries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// PublishStockChange implementa inventory.StockEventPublisher.
func (c *Collector) PublishStockChange(change inventory.StockChange) {
	switch change.Action {
	case inventory.ActionMovementRecorded:
		if change.Movement != nil {
			c.movements.WithLabelValues(change.Movement.Type).Inc()
		}
	case inventory.ActionAllocationReversed:
		c.deallocations.Inc()
	}
}

// ObserveRejection implementa inventory.RejectionObserver.
func (c *Collector) ObserveRejection(reason string) {
	c.rejections.WithLabelValues(reason).Inc()
}

// ObserveAlert implementa alert.Observer.
func (c *Collector) ObserveAlert(outcome string) {
	c.alerts.WithLabelValues(outcome).Inc()
}

// ObserveTxRetry implementa postgres.RetryObserver.
func (c *Collector) ObserveTxRetry() {
	c.txRetries.Inc()
}

// Handler expone el registro en formato Prometheus sobre Fiber.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
