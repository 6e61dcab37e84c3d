package hub

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/metrics"
)

// subscriberBuffer is the per-subscriber outbound queue. A subscriber
// whose queue is full is dropped rather than stalling the broadcast.
const subscriberBuffer = 16

// Subscription is a handle to one connected subscriber. Events arrive
// serialized on C; the channel is closed when the subscriber is removed.
type Subscription struct {
	ID uuid.UUID
	C  <-chan []byte
}

type subscriber struct {
	id   uuid.UUID
	send chan []byte
}

type subscribeCmd struct {
	sub   *subscriber
	reply chan Subscription
}

type unsubscribeCmd struct {
	id uuid.UUID
}

type publishCmd struct {
	eventType string
	data      []byte
}

type countCmd struct {
	reply chan int
}

// Hub fans events out to connected subscribers. The subscriber set is
// owned by a single goroutine; all mutation goes through the command
// channel. There is no buffering or replay: subscribers that connect
// after an event never see it and recover via the query endpoints.
type Hub struct {
	logger   zerolog.Logger
	commands chan interface{}
	done     chan struct{}
}

// New creates a hub and starts its command loop.
func New(logger zerolog.Logger) *Hub {
	h := &Hub{
		logger:   logger.With().Str("component", "hub").Logger(),
		commands: make(chan interface{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	subscribers := make(map[uuid.UUID]*subscriber)

	defer func() {
		for _, sub := range subscribers {
			close(sub.send)
		}
		metrics.RealtimeSubscribers.Set(0)
	}()

	for {
		var cmd interface{}
		select {
		case cmd = <-h.commands:
		case <-h.done:
			return
		}

		switch c := cmd.(type) {
		case subscribeCmd:
			subscribers[c.sub.id] = c.sub
			metrics.RealtimeSubscribers.Set(float64(len(subscribers)))
			c.reply <- Subscription{ID: c.sub.id, C: c.sub.send}
			h.logger.Debug().Str("subscriber", c.sub.id.String()).Msg("subscriber connected")

		case unsubscribeCmd:
			if sub, ok := subscribers[c.id]; ok {
				delete(subscribers, c.id)
				close(sub.send)
				metrics.RealtimeSubscribers.Set(float64(len(subscribers)))
				h.logger.Debug().Str("subscriber", c.id.String()).Msg("subscriber disconnected")
			}

		case publishCmd:
			for id, sub := range subscribers {
				select {
				case sub.send <- c.data:
				default:
					// Subscriber gone or hopelessly behind; drop it
					// instead of failing the broadcast.
					delete(subscribers, id)
					close(sub.send)
					h.logger.Debug().Str("subscriber", id.String()).Msg("subscriber dropped")
				}
			}
			metrics.RealtimeSubscribers.Set(float64(len(subscribers)))
			metrics.EventsBroadcast.WithLabelValues(c.eventType).Inc()

		case countCmd:
			c.reply <- len(subscribers)
		}
	}
}

// Subscribe registers a new subscriber and returns its handle.
func (h *Hub) Subscribe() Subscription {
	reply := make(chan Subscription, 1)
	select {
	case h.commands <- subscribeCmd{sub: &subscriber{id: uuid.New(), send: make(chan []byte, subscriberBuffer)}, reply: reply}:
		return <-reply
	case <-h.done:
		closed := make(chan []byte)
		close(closed)
		return Subscription{ID: uuid.Nil, C: closed}
	}
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	select {
	case h.commands <- unsubscribeCmd{id: id}:
	case <-h.done:
	}
}

// Broadcast serializes event and pushes it to every open subscriber.
// Delivery is best-effort and unordered with respect to persistence.
func (h *Hub) Broadcast(eventType string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("event serialization failed")
		return
	}
	select {
	case h.commands <- publishCmd{eventType: eventType, data: data}:
	case <-h.done:
	}
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case h.commands <- countCmd{reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Close stops the command loop and closes all subscriber channels.
func (h *Hub) Close() {
	close(h.done)
}
