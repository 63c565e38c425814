package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler recibe cada evento de un tipo suscrito.
type Handler func(ev Event)

// Bus es el canal pub/sub en proceso que desacopla al emisor de un evento de
// dominio de sus consumidores. Entrega síncrona, en orden de registro, sin
// persistencia propia: un suscriptor tardío no recibe eventos anteriores.
type Bus struct {
	mu      sync.RWMutex
	nextSub int64
	subs    map[string][]subscription
	taps    []subscription
	log     zerolog.Logger
}

type subscription struct {
	id      int64
	handler Handler
}

// NewBus construye el bus. El logger solo se usa para reportar handlers caídos.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]subscription),
		log:  log,
	}
}

// Subscribe registra un handler para un tipo de evento y devuelve la función
// para cancelar la suscripción. Cada llamada es independiente: el mismo handler
// puede registrarse varias veces y cada registro se cancela por separado.
func (b *Bus) Subscribe(eventType string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSub++
	id := b.nextSub
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[eventType]
		for i, s := range list {
			if s.id == id {
				b.subs[eventType] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Tap registra un handler que recibe toda emisión local, sin importar el tipo.
// Los eventos remotos reinyectados por Dispatch no pasan por los taps: eso
// evita que el puente entre procesos republique lo que acaba de recibir.
func (b *Bus) Tap(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSub++
	id := b.nextSub
	b.taps = append(b.taps, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.taps {
			if s.id == id {
				b.taps = append(b.taps[:i:i], b.taps[i+1:]...)
				return
			}
		}
	}
}

// Emit envuelve el payload con id único y timestamp y lo entrega de forma
// síncrona a todos los suscriptores del tipo, en orden de registro.
// Un handler que entre en pánico no impide la entrega al resto.
func (b *Bus) Emit(eventType string, payload any) Event {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	b.deliver(ev, true)
	return ev
}

// Dispatch entrega un evento ya envuelto que llegó de otro proceso.
// No pasa por los taps locales.
func (b *Bus) Dispatch(ev Event) {
	b.deliver(ev, false)
}

func (b *Bus) deliver(ev Event, local bool) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[ev.Type]))
	copy(list, b.subs[ev.Type])
	var taps []subscription
	if local {
		taps = make([]subscription, len(b.taps))
		copy(taps, b.taps)
	}
	b.mu.RUnlock()

	for _, s := range list {
		b.invoke(s, ev)
	}
	for _, s := range taps {
		b.invoke(s, ev)
	}
}

// invoke aísla cada handler: recupera el pánico y lo deja en el log.
func (b *Bus) invoke(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("event_type", ev.Type).
				Str("event_id", ev.ID).
				Interface("panic", r).
				Msg("handler de evento entró en pánico")
		}
	}()
	s.handler(ev)
}
