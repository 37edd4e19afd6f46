package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

var _ inventory.StockEventPublisher = (*Hub)(nil)

// Client conexión suscrita al feed de stock.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// EventStockUpdate nombre del evento difundido.
const EventStockUpdate = "stock_update"

// StockEvent mensaje enviado a los clientes tras cada cambio de saldo confirmado.
type StockEvent struct {
	Event      string    `json:"event"`
	Action     string    `json:"action"`
	MovementID string    `json:"movement_id,omitempty"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type,omitempty"`
	Quantity   int64     `json:"quantity,omitempty"`
	Balance    int64     `json:"balance"`
	ProjectID  string    `json:"project_id,omitempty"`
	At         time.Time `json:"at"`
}

// Hub difunde los cambios de stock a los clientes WebSocket conectados.
type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        zerolog.Logger
}

// NewHub crea el hub. Hay que lanzar Run en una goroutine.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx se cancela.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			h.log.Debug().Msg("cliente WS conectado")

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register da de alta un cliente. Si el hub ya se detuvo, cierra la conexión.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Unregister da de baja un cliente.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// PublishStockChange implementa inventory.StockEventPublisher. Nunca bloquea: si el buffer
// está lleno el evento se descarta.
func (h *Hub) PublishStockChange(change inventory.StockChange) {
	ev := StockEvent{
		Event:     EventStockUpdate,
		Action:    change.Action,
		ProductID: change.ProductID,
		Balance:   change.Balance,
		At:        time.Now().UTC(),
	}
	if m := change.Movement; m != nil {
		ev.MovementID = m.ID
		ev.Type = m.Type
		ev.Quantity = m.Quantity
		if m.ProjectID != nil {
			ev.ProjectID = *m.ProjectID
		}
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento de stock")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("product_id", change.ProductID).Msg("buffer WS lleno, evento descartado")
	}
}

// Handler endpoint WebSocket: registra la conexión y la mantiene viva hasta que el cliente cierra.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
