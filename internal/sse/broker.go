package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	HeartbeatInterval = 30 * time.Second

	clientBufferSize = 16
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	Events chan Event
	Done   chan struct{}
}

// Broker fans status events out to connected operator streams. Slow
// clients drop events rather than block the publisher.
type Broker struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	closed  bool
}

func NewBroker() *Broker {
	return &Broker{
		clients: make(map[*Client]bool),
	}
}

func (b *Broker) Subscribe() *Client {
	client := &Client{
		Events: make(chan Event, clientBufferSize),
		Done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		close(client.Done)
	} else {
		b.clients[client] = true
	}
	clientCount := len(b.clients)
	b.mu.Unlock()

	log.Debug().
		Int("clientCount", clientCount).
		Msg("sse client subscribed")

	return client
}

func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.Done)

		log.Debug().
			Int("clientCount", len(b.clients)).
			Msg("sse client unsubscribed")
	}
}

// Publish encodes data and delivers it to every subscriber.
func (b *Broker) Publish(eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	b.broadcast(Event{Type: eventType, Data: payload})
	return nil
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		select {
		case client.Events <- event:
		default:
			log.Warn().
				Str("eventType", event.Type).
				Msg("client event buffer full, dropping event")
		}
	}
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for client := range b.clients {
		close(client.Done)
	}
	b.clients = make(map[*Client]bool)
}

func (b *Broker) TotalClients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
