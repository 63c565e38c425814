package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// envelope viaja por el canal Redis: el evento más el origen que lo publicó,
// para que cada puente descarte sus propias publicaciones al recibirlas.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisBridge propaga las emisiones locales del Bus a otros procesos vía
// Redis pub/sub y reinyecta las ajenas en el bus local. Reemplaza el truco
// legado de "marcador efímero en el storage compartido": mejor esfuerzo,
// sin cola ni replay para suscriptores tardíos.
type RedisBridge struct {
	bus     *Bus
	client  *redis.Client
	channel string
	origin  string
	out     chan Event
	untap   func()
	cancel  context.CancelFunc
	done    chan struct{}
	log     zerolog.Logger
}

// NewRedisBridge construye el puente sobre un cliente Redis ya conectado.
// El canal debe ir namespaced (ej. "abastoya:events") para no chocar con
// otras aplicaciones que compartan la instancia.
func NewRedisBridge(bus *Bus, client *redis.Client, channel string, log zerolog.Logger) *RedisBridge {
	return &RedisBridge{
		bus:     bus,
		client:  client,
		channel: channel,
		origin:  uuid.New().String(),
		out:     make(chan Event, 256),
		done:    make(chan struct{}),
		log:     log,
	}
}

// Run engancha el tap al bus y arranca las goroutines de publicación y
// recepción. Bloquea hasta poder suscribirse al canal; el resto es asíncrono.
func (b *RedisBridge) Run(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	sub := b.client.Subscribe(ctx, b.channel)
	// Receive confirma la suscripción antes de aceptar tráfico local.
	if _, err := sub.Receive(ctx); err != nil {
		b.cancel()
		return err
	}

	b.untap = b.bus.Tap(func(ev Event) {
		select {
		case b.out <- ev:
		default:
			// Canal lleno: se descarta. El puente es notificación, no cola.
			b.log.Warn().Str("event_type", ev.Type).Msg("puente redis saturado, evento descartado")
		}
	})

	go b.publishLoop(ctx)
	go b.receiveLoop(ctx, sub)
	return nil
}

// Close detiene el puente y espera a que las goroutines terminen.
func (b *RedisBridge) Close() {
	if b.untap != nil {
		b.untap()
	}
	if b.cancel != nil {
		b.cancel()
	}
	<-b.done
}

func (b *RedisBridge) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.out:
			payload, err := json.Marshal(envelope{Origin: b.origin, Event: ev})
			if err != nil {
				b.log.Error().Err(err).Str("event_type", ev.Type).Msg("serializar evento para redis")
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := b.client.Publish(pubCtx, b.channel, payload).Err(); err != nil {
				b.log.Warn().Err(err).Str("event_type", ev.Type).Msg("publicar evento en redis")
			}
			cancel()
		}
	}
}

func (b *RedisBridge) receiveLoop(ctx context.Context, sub *redis.PubSub) {
	defer close(b.done)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn().Err(err).Msg("mensaje redis malformado, ignorado")
				continue
			}
			if env.Origin == b.origin {
				continue // eco de nuestra propia publicación
			}
			b.bus.Dispatch(env.Event)
		}
	}
}

// DecodeEnvelope expone el parseo del sobre para tests y herramientas.
func DecodeEnvelope(raw []byte) (origin string, ev Event, err error) {
	var env envelope
	if err = json.Unmarshal(raw, &env); err != nil {
		return "", Event{}, err
	}
	return env.Origin, env.Event, nil
}
