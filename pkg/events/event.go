package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventID is unique per occurrence. Downstream stores use it to drop
	// redeliveries.
	EventID() string

	// EventType returns the unique code for this event (e.g., "DONATION_CLAIMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	DonationCreated    = "DONATION_CREATED"
	DonationClaimed    = "DONATION_CLAIMED"
	DonationReceived   = "DONATION_RECEIVED"
	DonationDeleted    = "DONATION_DELETED"
	DonationOverridden = "DONATION_OVERRIDDEN"
	WasteLogged        = "WASTE_LOGGED"
	UserRegistered     = "USER_REGISTERED"
	UserVerified       = "USER_VERIFIED"
)

type BaseEvent struct {
	Id         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Id: uuid.NewString(), Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventID() string {
	return e.Id
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes the event as a JSON envelope.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{Id: e.EventID(), Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

// Unmarshal decodes an envelope written by Marshal.
func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

// StringSlice reads a []string payload value that may have passed through JSON.
func StringSlice(payload map[string]interface{}, key string) []string {
	switch v := payload[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
