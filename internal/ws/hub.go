package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/abastoya/marketplace-api/internal/events"
)

// relayedTypes son los eventos que se empujan a los navegadores conectados.
// Las demás convenciones del bus (bargains, reviews internas...) no salen por aquí.
var relayedTypes = []string{
	events.TypeStockUpdate,
	events.TypeProductCreated,
	events.TypeProductUpdated,
	events.TypeProductDeleted,
	events.TypeDeliveryCreated,
	events.TypeDeliveryStatusChanged,
	events.TypeFlashSaleCreated,
	events.TypeFlashSaleUpdated,
	events.TypeFlashSaleDeleted,
	events.TypeFlashSaleStockChanged,
	events.TypeReviewAdded,
	events.TypeReviewUpdated,
}

// Hub mantiene las conexiones websocket de las pestañas abiertas y les
// retransmite los eventos del bus como JSON. Es la mitad navegador de la
// propagación entre pestañas: cada pestaña reconcilia su vista al recibirlos.
type Hub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	unsubs     []func()
	log        zerolog.Logger
}

// NewHub construye el hub sin arrancarlo.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Attach suscribe el hub a los tipos de evento retransmitidos.
func (h *Hub) Attach(bus *events.Bus) {
	for _, t := range relayedTypes {
		h.unsubs = append(h.unsubs, bus.Subscribe(t, h.onEvent))
	}
}

// Detach cancela las suscripciones al bus.
func (h *Hub) Detach() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

func (h *Hub) onEvent(ev events.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event_type", ev.Type).Msg("serializar evento para websocket")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("event_type", ev.Type).Msg("broadcast websocket saturado, evento descartado")
	}
}

// Register encola el alta de una conexión.
func (h *Hub) Register(conn *websocket.Conn) { h.register <- conn }

// Unregister encola la baja de una conexión.
func (h *Hub) Unregister(conn *websocket.Conn) { h.unregister <- conn }

// Run atiende altas, bajas y difusión. Lanzar en una goroutine propia.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.log.Debug().Msg("cliente websocket conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}
