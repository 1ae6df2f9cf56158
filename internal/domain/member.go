package domain

import (
	"strings"
	"time"

	"github.com/haeseoky/member-service/internal/events"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// Member is the aggregate root for an account record. Fields are unexported:
// state changes only through the mutation methods below, each of which
// returns the event describing the change. The aggregate performs no I/O;
// persisting state and publishing events is the caller's job.
type Member struct {
	id        int64
	email     Email
	name      string
	status    MemberStatus
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewMember creates a member with a fresh id, ACTIVE status and matching
// created/updated timestamps. The email must already be a validated Email
// value; the name is trimmed and must not be blank.
func NewMember(email Email, name string) (*Member, events.Event, error) {
	if email.IsZero() {
		return nil, events.Event{}, apperrors.NewValidationError("email is required", nil)
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, events.Event{}, apperrors.NewValidationError("name cannot be blank", nil)
	}

	now := time.Now().UTC()
	member := &Member{
		id:        NextMemberID(),
		email:     email,
		name:      trimmed,
		status:    MemberStatusActive,
		createdAt: now,
		updatedAt: now,
	}

	event := events.NewEvent(events.EventMemberCreated, member.id, events.MemberCreatedPayload{
		Email:  member.email.String(),
		Name:   member.name,
		Status: string(member.status),
	})
	return member, event, nil
}

// RestoreMember reconstructs an aggregate from persisted fields. It trusts
// the storage layer and performs no validation beyond trimming the name;
// only the persistence adapter should call it.
func RestoreMember(id int64, email Email, name string, status MemberStatus, createdAt, updatedAt time.Time, deletedAt *time.Time) *Member {
	return &Member{
		id:        id,
		email:     email,
		name:      strings.TrimSpace(name),
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

// UpdateInformation renames the member. An unchanged name is not detected:
// the call still advances updatedAt and still yields an event.
func (m *Member) UpdateInformation(newName string) (events.Event, error) {
	if m.deletedAt != nil {
		return events.Event{}, apperrors.NewAlreadyDeleted(m.id)
	}
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return events.Event{}, apperrors.NewValidationError("name cannot be blank", nil)
	}

	oldName := m.name
	m.name = trimmed
	m.updatedAt = time.Now().UTC()

	return events.NewEvent(events.EventMemberUpdated, m.id, events.MemberUpdatedPayload{
		OldName: oldName,
		NewName: m.name,
	}), nil
}

// ChangeStatus moves the member to newStatus if the transition table allows it.
func (m *Member) ChangeStatus(newStatus MemberStatus) (events.Event, error) {
	if m.deletedAt != nil {
		return events.Event{}, apperrors.NewAlreadyDeleted(m.id)
	}
	if !newStatus.IsValid() {
		return events.Event{}, apperrors.NewValidationError("unknown member status", map[string]any{"status": string(newStatus)})
	}
	if !m.status.CanTransitionTo(newStatus) {
		return events.Event{}, apperrors.NewIllegalTransition(string(m.status), string(newStatus))
	}

	oldStatus := m.status
	m.status = newStatus
	m.updatedAt = time.Now().UTC()

	return events.NewEvent(events.EventMemberStatusChanged, m.id, events.MemberStatusChangedPayload{
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
	}), nil
}

// SoftDelete marks the member deleted. Deletion forces status to INACTIVE
// regardless of the transition table and is a one-shot operation: a second
// call fails.
func (m *Member) SoftDelete() (events.Event, error) {
	if m.deletedAt != nil {
		return events.Event{}, apperrors.NewAlreadyDeleted(m.id)
	}

	now := time.Now().UTC()
	m.status = MemberStatusInactive
	m.deletedAt = &now
	m.updatedAt = now

	return events.NewEvent(events.EventMemberDeleted, m.id, events.MemberDeletedPayload{
		Email: m.email.String(),
	}), nil
}

// IsActive reports whether the member is ACTIVE and not soft-deleted.
func (m *Member) IsActive() bool {
	return m.status == MemberStatusActive && m.deletedAt == nil
}

func (m *Member) ID() int64            { return m.id }
func (m *Member) Email() Email         { return m.email }
func (m *Member) Name() string         { return m.name }
func (m *Member) Status() MemberStatus { return m.status }
func (m *Member) CreatedAt() time.Time { return m.createdAt }
func (m *Member) UpdatedAt() time.Time { return m.updatedAt }

// DeletedAt returns the soft-delete timestamp, or nil while the member is alive.
func (m *Member) DeletedAt() *time.Time {
	if m.deletedAt == nil {
		return nil
	}
	t := *m.deletedAt
	return &t
}
