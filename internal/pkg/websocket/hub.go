// Package websocket pushes new notifications to signed-in dashboards.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// EventNotification is the only event type sent today
const EventNotification = "notification"

// Event is one frame sent to a client
type Event struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

type delivery struct {
	recipients []string
	data       []byte
}

// Hub maintains the set of active clients, keyed by session email, and
// delivers events to the clients of each recipient.
type Hub struct {
	// Registered clients organized by email
	clients map[string]map[*Client]bool

	deliveries chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Guards clients for readers outside Run
	mu sync.RWMutex

	allowedOrigin string
	logger        zerolog.Logger
}

// NewHub creates a new Hub. allowedOrigin restricts which browser origin may
// open a feed; empty allows any.
func NewHub(allowedOrigin string, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[string]map[*Client]bool),
		deliveries:    make(chan delivery, 64),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		allowedOrigin: allowedOrigin,
		logger:        logger,
	}
}

// Run handles registrations and deliveries until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliveries:
			h.deliver(d)

		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.email]; !ok {
		h.clients[client.email] = make(map[*Client]bool)
	}
	h.clients[client.email][client] = true

	h.logger.Debug().
		Str("email", client.email).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Notification feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes client; callers hold mu
func (h *Hub) dropLocked(client *Client) {
	set, ok := h.clients[client.email]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.email)
	}

	h.logger.Debug().Str("email", client.email).Msg("Notification feed client unregistered")
}

func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, email := range d.recipients {
		for client := range h.clients[email] {
			select {
			case client.send <- d.data:
				sent++
			default:
				// Slow or gone; the client reconnects and reloads the list
				h.dropLocked(client)
			}
		}
	}

	h.logger.Debug().Int("recipients", len(d.recipients)).Int("clients", sent).Msg("Notification pushed")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.dropLocked(client)
		}
	}
}

// Publish queues notification for every connected client of recipients.
// It never blocks: when the queue is full the push is skipped, since the
// notification is already in the log.
func (h *Hub) Publish(recipients []string, notification *models.Notification) {
	data, err := json.Marshal(Event{Type: EventNotification, Notification: notification, Timestamp: time.Now().UTC()})
	if err != nil {
		h.logger.Error().Err(err).Int64("notificationID", notification.ID).Msg("Failed to marshal notification event")
		return
	}

	normalized := make([]string, 0, len(recipients))
	for _, r := range recipients {
		normalized = append(normalized, validation.NormalizeEmail(r))
	}

	select {
	case h.deliveries <- delivery{recipients: normalized, data: data}:
	default:
		h.logger.Warn().Int64("notificationID", notification.ID).Msg("Notification feed queue full, push skipped")
	}
}

// ClientsCount returns the number of open feeds for email
func (h *Hub) ClientsCount(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[validation.NormalizeEmail(email)])
}
