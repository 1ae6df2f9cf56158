package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the member event variants.
type EventType string

const (
	EventMemberCreated       EventType = "MemberCreated"
	EventMemberUpdated       EventType = "MemberUpdated"
	EventMemberStatusChanged EventType = "MemberStatusChanged"
	EventMemberDeleted       EventType = "MemberDeleted"
)

// Event is the envelope every member event travels in. OccurredAt is
// captured when the event is constructed, immediately after the in-memory
// mutation; the id lets consumers dedup under at-least-once delivery.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"eventType"`
	MemberID   int64     `json:"memberId"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurredAt"`
}

// MemberCreatedPayload payload.
type MemberCreatedPayload struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// MemberUpdatedPayload payload.
type MemberUpdatedPayload struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// MemberStatusChangedPayload payload.
type MemberStatusChangedPayload struct {
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// MemberDeletedPayload payload.
type MemberDeletedPayload struct {
	Email string `json:"email"`
}

// NewEvent builds an envelope around the given payload.
func NewEvent(eventType EventType, memberID int64, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		MemberID:   memberID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}
