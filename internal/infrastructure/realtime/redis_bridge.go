package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const (
	publishTimeout    = 2 * time.Second
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

var _ ports.ChangePublisher = (*RedisBridge)(nil)

// Broker lo que el puente necesita de Redis.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe devuelve la suscripción ya confirmada por el servidor.
	Subscribe(ctx context.Context, channel string) (Feed, error)
}

// Feed suscripción activa. *redis.PubSub la implementa.
type Feed interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// RedisBroker adapta *redis.Client a Broker.
type RedisBroker struct {
	Client *redis.Client
}

// Publish publica el payload en el canal.
func (r RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.Client.Publish(ctx, channel, payload).Err()
}

// Subscribe se suscribe y espera la confirmación del servidor.
func (r RedisBroker) Subscribe(ctx context.Context, channel string) (Feed, error) {
	sub := r.Client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

// RedisBridge publica los eventos en un canal Redis y reenvía al Hub local lo que
// llega del canal, de modo que todas las instancias ven los cambios de todas.
//
// Mientras la suscripción no está activa los eventos propios se entregan también
// al Hub local: sin suscripción nadie más los traería de vuelta.
type RedisBridge struct {
	broker     Broker
	channel    string
	hub        *Hub
	log        *logger.Logger
	live       atomic.Bool
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewRedisBridge construye el puente sobre un cliente Redis. client nil devuelve nil.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, log *logger.Logger) *RedisBridge {
	if client == nil {
		return nil
	}
	return NewBridge(RedisBroker{Client: client}, channel, hub, log)
}

// NewBridge construye el puente sobre cualquier Broker.
func NewBridge(broker Broker, channel string, hub *Hub, log *logger.Logger) *RedisBridge {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisBridge{
		broker:     broker,
		channel:    channel,
		hub:        hub,
		log:        log.Component("realtime"),
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

// WithBackoff cambia la espera entre reconexiones (tests).
func (b *RedisBridge) WithBackoff(minWait, maxWait time.Duration) *RedisBridge {
	if minWait > 0 {
		b.minBackoff = minWait
	}
	if maxWait >= b.minBackoff {
		b.maxBackoff = maxWait
	}
	return b
}

// Live informa si la suscripción al canal está activa.
func (b *RedisBridge) Live() bool {
	return b.live.Load()
}

// Publish envía el evento al canal. Si Redis falla o no hay suscripción activa,
// el evento se entrega a los clientes locales.
func (b *RedisBridge) Publish(ctx context.Context, ev ports.ChangeEvent) {
	local := !b.live.Load()
	if local {
		b.hub.Deliver(ev)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		b.log.Error().Err(err).Msg("serializar evento")
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := b.broker.Publish(pubCtx, b.channel, payload); err != nil {
		b.log.Warn().Err(err).Str("channel", b.channel).Msg("publicar en redis falló, entrega local")
		if !local {
			b.hub.Deliver(ev)
		}
	}
}

// Run escucha el canal hasta que ctx se cancele. Si la suscripción cae, reintenta
// con espera exponencial entre minBackoff y maxBackoff.
func (b *RedisBridge) Run(ctx context.Context) error {
	wait := b.minBackoff
	for {
		subscribed, err := b.listen(ctx)
		b.live.Store(false)
		if ctx.Err() != nil {
			return nil
		}
		if subscribed {
			wait = b.minBackoff
		}
		b.log.Warn().Err(err).Dur("retry_in", wait).Str("channel", b.channel).Msg("suscripción redis caída, reintentando")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		wait = min(wait*2, b.maxBackoff)
	}
}

// listen mantiene una suscripción hasta que falle. subscribed indica si llegó a activarse.
func (b *RedisBridge) listen(ctx context.Context) (subscribed bool, err error) {
	feed, err := b.broker.Subscribe(ctx, b.channel)
	if err != nil {
		return false, err
	}
	defer func() { _ = feed.Close() }()

	b.live.Store(true)
	b.log.Info().Str("channel", b.channel).Msg("suscrito a eventos de cambio")

	ch := feed.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return true, errors.New("realtime: canal redis cerrado")
			}
			var ev ports.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn().Err(err).Msg("evento inválido descartado")
				continue
			}
			b.hub.Deliver(ev)
		}
	}
}
