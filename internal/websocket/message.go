package websocket

import (
	"encoding/json"
	"time"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe   MessageType = "SUBSCRIBE"
	MessageTypeUnsubscribe MessageType = "UNSUBSCRIBE"

	// Server to Client
	MessageTypeSubscribed     MessageType = "SUBSCRIBED"
	MessageTypeDraftStarted   MessageType = "DRAFT_STARTED"
	MessageTypeSeatSubmitted  MessageType = "SEAT_SUBMITTED"
	MessageTypeDraftCompleted MessageType = "DRAFT_COMPLETED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

// SubscribePayload names one topic: a draft, or a cube to hear about every
// draft started from it.
type SubscribePayload struct {
	DraftID string `json:"draftId,omitempty"`
	CubeID  string `json:"cubeId,omitempty"`
}

// Server to Client payloads

type SubscribedPayload struct {
	Topic string `json:"topic"`
}

type SeatInfo struct {
	Name      string         `json:"name"`
	Human     bool           `json:"human"`
	Bot       domain.BotKind `json:"bot,omitempty"`
	Submitted bool           `json:"submitted"`
}

type DraftInfo struct {
	DraftID       string     `json:"draftId"`
	CubeID        string     `json:"cubeId"`
	SourceDraftID *string    `json:"sourceDraftId,omitempty"`
	Status        string     `json:"status"`
	Seats         []SeatInfo `json:"seats"`
}

type SeatSubmittedPayload struct {
	Draft DraftInfo `json:"draft"`
	Seat  int       `json:"seat"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newDraftInfo(d *domain.Draft) DraftInfo {
	info := DraftInfo{
		DraftID: d.ID.String(),
		CubeID:  d.CubeID.String(),
		Status:  string(d.Status),
		Seats:   make([]SeatInfo, len(d.Seats)),
	}
	if d.SourceDraftID != nil {
		src := d.SourceDraftID.String()
		info.SourceDraftID = &src
	}
	for i, seat := range d.Seats {
		info.Seats[i] = SeatInfo{
			Name:      seat.Name,
			Human:     !seat.IsBot(),
			Submitted: seat.Submitted,
		}
		if seat.Bot != nil {
			info.Seats[i].Bot = seat.Bot.Kind
		}
	}
	return info
}
