package alert

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

var _ inventory.AlertNotifier = (*Notifier)(nil)

// CategoryLowStock categoría de las notificaciones de stock bajo.
const CategoryLowStock = "stock_alert"

// Notification mensaje fuera de banda (categoría, asunto, cuerpo HTML).
type Notification struct {
	Category string
	Subject  string
	HTMLBody string
}

// Dispatcher puerto hacia el servicio de envío de notificaciones (correo).
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// Observer registra el resultado de cada envío (sent | failed).
type Observer interface {
	ObserveAlert(outcome string)
}

// Config opciones del notificador.
type Config struct {
	Timeout time.Duration // tiempo máximo por envío; 0 = 15s
}

// Notifier evalúa el umbral de cada SORTIE y despacha la alerta en segundo plano.
// No guarda estado: cada salida en o bajo el umbral genera una alerta nueva.
type Notifier struct {
	dispatcher Dispatcher
	observer   Observer
	timeout    time.Duration
	log        zerolog.Logger
	wg         sync.WaitGroup
}

// NewNotifier construye el notificador. observer puede ser nil.
func NewNotifier(dispatcher Dispatcher, observer Observer, cfg Config, log zerolog.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Notifier{
		dispatcher: dispatcher,
		observer:   observer,
		timeout:    timeout,
		log:        log.With().Str("component", "alert_notifier").Logger(),
	}
}

// MaybeAlert dispara la alerta si el producto tiene umbral y newBalance <= umbral.
// Retorna de inmediato; el envío corre fuera de la transacción y sus fallos solo se registran.
func (n *Notifier) MaybeAlert(product entity.Product, newBalance int64) {
	if !domaininv.BelowThreshold(&product, newBalance) {
		return
	}
	msg, err := BuildLowStockNotification(product, newBalance)
	if err != nil {
		n.log.Error().Err(err).Str("product_id", product.ID).Msg("render de alerta de stock")
		n.observe("failed")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.log.Error().Interface("panic", r).Str("product_id", product.ID).Msg("envío de alerta abortado")
				n.observe("failed")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.dispatcher.Dispatch(ctx, msg); err != nil {
			n.log.Warn().Err(err).
				Str("product_id", product.ID).
				Str("sku", product.SKU).
				Int64("balance", newBalance).
				Msg("no se pudo enviar la alerta de stock bajo")
			n.observe("failed")
			return
		}
		n.log.Info().
			Str("product_id", product.ID).
			Int64("balance", newBalance).
			Int64("threshold", *product.AlertThreshold).
			Msg("alerta de stock bajo enviada")
		n.observe("sent")
	}()
}

// Wait espera a que terminen los envíos en curso o a que ctx expire (apagado ordenado).
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) observe(outcome string) {
	if n.observer != nil {
		n.observer.ObserveAlert(outcome)
	}
}

var lowStockTemplate = template.Must(template.New("low_stock").Parse(`<html><body>
<h2>Alerte de stock bas</h2>
<p>Le produit <strong>{{.Name}}</strong> a atteint son seuil d'alerte.</p>
<table cellpadding="4">
<tr><td>SKU</td><td>{{.SKU}}</td></tr>
<tr><td>Quantité restante</td><td><strong>{{.Balance}}</strong></td></tr>
<tr><td>Seuil d'alerte</td><td>{{.Threshold}}</td></tr>
</table>
</body></html>`))

// BuildLowStockNotification arma el mensaje de alerta. Falla si el producto no tiene umbral.
func BuildLowStockNotification(product entity.Product, newBalance int64) (Notification, error) {
	if product.AlertThreshold == nil {
		return Notification{}, fmt.Errorf("producto %s sin umbral de alerta", product.ID)
	}
	var buf bytes.Buffer
	err := lowStockTemplate.Execute(&buf, struct {
		Name      string
		SKU       string
		Balance   int64
		Threshold int64
	}{product.Name, product.SKU, newBalance, *product.AlertThreshold})
	if err != nil {
		return Notification{}, fmt.Errorf("render plantilla: %w", err)
	}
	return Notification{
		Category: CategoryLowStock,
		Subject:  fmt.Sprintf("Alerte stock bas : %s (%s)", product.Name, product.SKU),
		HTMLBody: buf.String(),
	}, nil
}
