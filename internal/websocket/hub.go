package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"go.uber.org/zap"
)

var errInvalidTopic = errors.New("invalid topic")

// Hub fans draft lifecycle events out to subscribed clients. A topic is a draft
// id or a cube id.
type Hub struct {
	clients    map[*Client]map[uuid.UUID]bool
	topics     map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan *subscription
	broadcast  chan *event
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	logger     *zap.SugaredLogger
	mu         sync.RWMutex
}

type subscription struct {
	client *Client
	topic  uuid.UUID
	remove bool
}

type event struct {
	topics  []uuid.UUID
	message *Message
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]map[uuid.UUID]bool),
		topics:     make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan *subscription),
		broadcast:  make(chan *event, 256),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]map[uuid.UUID]bool)
			h.topics = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = make(map[uuid.UUID]bool)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case sub := <-h.subscribe:
			h.mu.Lock()
			h.handleSubscription(sub)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			h.deliver(ev)
			h.mu.Unlock()
		}
	}
}

// Stop gracefully shuts down the hub and closes every client.
// It blocks until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Serve attaches an upgraded connection to the hub and starts its pumps.
// viewer is nil for anonymous listeners.
func (h *Hub) Serve(conn *websocket.Conn, viewer *domain.Viewer) *Client {
	client := NewClient(h, conn, viewer)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return client
	}

	go client.WritePump()
	go client.ReadPump()
	return client
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribers returns how many clients listen on topic.
func (h *Hub) Subscribers(topic uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) DraftStarted(d *domain.Draft) {
	topics := []uuid.UUID{d.ID, d.CubeID}
	if d.SourceDraftID != nil {
		topics = append(topics, *d.SourceDraftID)
	}
	h.publish(MessageTypeDraftStarted, newDraftInfo(d), topics...)
}

func (h *Hub) SeatSubmitted(d *domain.Draft, seat int) {
	h.publish(MessageTypeSeatSubmitted, SeatSubmittedPayload{Draft: newDraftInfo(d), Seat: seat}, d.ID)
}

func (h *Hub) DraftCompleted(d *domain.Draft) {
	h.publish(MessageTypeDraftCompleted, newDraftInfo(d), d.ID, d.CubeID)
}

// publish never blocks the caller; events are dropped when the hub is behind
// or stopped.
func (h *Hub) publish(msgType MessageType, payload any, topics ...uuid.UUID) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		h.logger.Errorw("failed to build websocket event", "type", msgType, "error", err)
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- &event{topics: topics, message: msg}:
	default:
		h.logger.Warnw("websocket event dropped", "type", msgType)
	}
}

func (h *Hub) handleSubscription(sub *subscription) {
	subs, ok := h.clients[sub.client]
	if !ok {
		return
	}

	if sub.remove {
		delete(subs, sub.topic)
		h.removeFromTopic(sub.client, sub.topic)
		return
	}

	subs[sub.topic] = true
	if h.topics[sub.topic] == nil {
		h.topics[sub.topic] = make(map[*Client]bool)
	}
	h.topics[sub.topic][sub.client] = true

	msg, _ := NewMessage(MessageTypeSubscribed, SubscribedPayload{Topic: sub.topic.String()})
	sub.client.Send(msg)
}

// deliver sends an event once per client even when it matches several of
// the client's topics.
func (h *Hub) deliver(ev *event) {
	seen := make(map[*Client]bool)
	for _, topic := range ev.topics {
		for client := range h.topics[topic] {
			if seen[client] {
				continue
			}
			seen[client] = true
			if !client.Send(ev.message) {
				h.logger.Warnw("dropping slow websocket client", "topic", topic)
				h.drop(client)
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	subs, ok := h.clients[client]
	if !ok {
		return
	}
	for topic := range subs {
		h.removeFromTopic(client, topic)
	}
	delete(h.clients, client)
	client.Close()
}

func (h *Hub) removeFromTopic(client *Client, topic uuid.UUID) {
	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}
