package notifications

import (
	"encoding/json"
	"time"
)

// Type classifies a notification.
type Type string

const (
	TypeJobMatch          Type = "job_match"
	TypeApplicationUpdate Type = "application_update"
	TypeSystem            Type = "system"
	TypeDeadline          Type = "deadline"
)

// Notification is a message shown in a user's inbox.
type Notification struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Date         time.Time `json:"date"`
	Read         bool      `json:"read"`
	Type         Type      `json:"type"`
	RelatedJobID string    `json:"relatedJobId,omitempty"`
}

// Event is the payload published to brokers.
type Event struct {
	Notification
	Version int `json:"version"`
}

// EncodeEvent returns the broker representation of a notification.
func EncodeEvent(n Notification) ([]byte, error) {
	return json.Marshal(Event{Notification: n, Version: 1})
}

// DecodeEvent parses a broker payload.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
