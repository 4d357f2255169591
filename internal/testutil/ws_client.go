package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/smartintruesdell/CubeCobra/internal/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient dials url and closes the connection when the test ends
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close sends a close frame and closes the connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// SendRaw writes data as a single text frame
func (c *WSClient) SendRaw(data []byte) {
	c.t.Helper()

	c.mu.Lock()
	err := c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

func (c *WSClient) send(msgType websocket.MessageType, payload any) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}
	c.SendRaw(data)
}

func (c *WSClient) SubscribeDraft(draftID string) {
	c.send(websocket.MessageTypeSubscribe, websocket.SubscribePayload{DraftID: draftID})
}

func (c *WSClient) SubscribeCube(cubeID string) {
	c.send(websocket.MessageTypeSubscribe, websocket.SubscribePayload{CubeID: cubeID})
}

func (c *WSClient) Unsubscribe(payload websocket.SubscribePayload) {
	c.send(websocket.MessageTypeUnsubscribe, payload)
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

func expectPayload[T any](c *WSClient, msgType websocket.MessageType, timeout time.Duration) *T {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msgType, err)
	}
	return &payload
}

func (c *WSClient) ExpectSubscribed(timeout time.Duration) *websocket.SubscribedPayload {
	c.t.Helper()
	return expectPayload[websocket.SubscribedPayload](c, websocket.MessageTypeSubscribed, timeout)
}

func (c *WSClient) ExpectDraftStarted(timeout time.Duration) *websocket.DraftInfo {
	c.t.Helper()
	return expectPayload[websocket.DraftInfo](c, websocket.MessageTypeDraftStarted, timeout)
}

func (c *WSClient) ExpectSeatSubmitted(timeout time.Duration) *websocket.SeatSubmittedPayload {
	c.t.Helper()
	return expectPayload[websocket.SeatSubmittedPayload](c, websocket.MessageTypeSeatSubmitted, timeout)
}

func (c *WSClient) ExpectDraftCompleted(timeout time.Duration) *websocket.DraftInfo {
	c.t.Helper()
	return expectPayload[websocket.DraftInfo](c, websocket.MessageTypeDraftCompleted, timeout)
}

// ExpectErrorWithCode waits for an ERROR message and checks its code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := expectPayload[websocket.ErrorPayload](c, websocket.MessageTypeError, timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s (%s)", code, payload.Code, payload.Message)
	}
	return payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("expected no message, got %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}

// DrainMessages discards anything queued until the connection is quiet
func (c *WSClient) DrainMessages() {
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
