package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haeseoky/member-service/internal/events"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

func mustEmail(t *testing.T, raw string) Email {
	t.Helper()
	email, err := NewEmail(raw)
	require.NoError(t, err)
	return email
}

func newTestMember(t *testing.T) *Member {
	t.Helper()
	member, _, err := NewMember(mustEmail(t, "bob@example.com"), "Bob")
	require.NoError(t, err)
	return member
}

func TestNewMember(t *testing.T) {
	member, event, err := NewMember(mustEmail(t, "A@Ex.com"), "  Bob  ")
	require.NoError(t, err)

	assert.Positive(t, member.ID())
	assert.Equal(t, "a@ex.com", member.Email().String())
	assert.Equal(t, "Bob", member.Name())
	assert.Equal(t, MemberStatusActive, member.Status())
	assert.Equal(t, member.CreatedAt(), member.UpdatedAt())
	assert.Nil(t, member.DeletedAt())
	assert.True(t, member.IsActive())

	assert.Equal(t, events.EventMemberCreated, event.Type)
	assert.Equal(t, member.ID(), event.MemberID)
	assert.Equal(t, events.MemberCreatedPayload{
		Email:  "a@ex.com",
		Name:   "Bob",
		Status: "ACTIVE",
	}, event.Data)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestNewMemberBlankName(t *testing.T) {
	_, _, err := NewMember(mustEmail(t, "bob@example.com"), "   ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, _, err = NewMember(Email{}, "Bob")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateInformation(t *testing.T) {
	member := newTestMember(t)
	before := member.UpdatedAt()

	event, err := member.UpdateInformation("  Robert ")
	require.NoError(t, err)

	assert.Equal(t, "Robert", member.Name())
	assert.GreaterOrEqual(t, member.UpdatedAt().UnixNano(), before.UnixNano())
	assert.Equal(t, events.EventMemberUpdated, event.Type)
	assert.Equal(t, events.MemberUpdatedPayload{OldName: "Bob", NewName: "Robert"}, event.Data)
}

func TestUpdateInformationUnchangedNameStillEmits(t *testing.T) {
	member := newTestMember(t)

	event, err := member.UpdateInformation("Bob")
	require.NoError(t, err)
	assert.Equal(t, events.MemberUpdatedPayload{OldName: "Bob", NewName: "Bob"}, event.Data)
}

func TestUpdateInformationBlank(t *testing.T) {
	member := newTestMember(t)

	_, err := member.UpdateInformation("")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	assert.Equal(t, "Bob", member.Name())
}

func TestChangeStatusLegalTransitions(t *testing.T) {
	member := newTestMember(t)

	event, err := member.ChangeStatus(MemberStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, MemberStatusSuspended, member.Status())
	assert.Equal(t, events.MemberStatusChangedPayload{OldStatus: "ACTIVE", NewStatus: "SUSPENDED"}, event.Data)

	_, err = member.ChangeStatus(MemberStatusActive)
	require.NoError(t, err)
	assert.Equal(t, MemberStatusActive, member.Status())
}

func TestChangeStatusNoSelfLoop(t *testing.T) {
	member := newTestMember(t)

	_, err := member.ChangeStatus(MemberStatusSuspended)
	require.NoError(t, err)

	_, err = member.ChangeStatus(MemberStatusSuspended)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ILLEGAL_STATE_TRANSITION"))
	assert.Equal(t, MemberStatusSuspended, member.Status())
}

func TestChangeStatusInactiveNeedsReview(t *testing.T) {
	member := newTestMember(t)
	_, err := member.ChangeStatus(MemberStatusInactive)
	require.NoError(t, err)

	// no direct edge back to ACTIVE
	_, err = member.ChangeStatus(MemberStatusActive)
	assert.True(t, apperrors.IsCode(err, "ILLEGAL_STATE_TRANSITION"))

	_, err = member.ChangeStatus(MemberStatusSuspended)
	require.NoError(t, err)
	_, err = member.ChangeStatus(MemberStatusActive)
	require.NoError(t, err)
	assert.True(t, member.IsActive())
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	member := newTestMember(t)
	_, err := member.ChangeStatus(MemberStatus("BANNED"))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSoftDelete(t *testing.T) {
	member := newTestMember(t)

	event, err := member.SoftDelete()
	require.NoError(t, err)

	assert.Equal(t, MemberStatusInactive, member.Status())
	require.NotNil(t, member.DeletedAt())
	assert.Equal(t, *member.DeletedAt(), member.UpdatedAt())
	assert.False(t, member.IsActive())
	assert.Equal(t, events.EventMemberDeleted, event.Type)
	assert.Equal(t, events.MemberDeletedPayload{Email: "bob@example.com"}, event.Data)
}

func TestSoftDeleteNotIdempotent(t *testing.T) {
	member := newTestMember(t)

	_, err := member.SoftDelete()
	require.NoError(t, err)

	_, err = member.SoftDelete()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ALREADY_DELETED"))
}

func TestDeletedMemberRejectsMutations(t *testing.T) {
	member := newTestMember(t)
	_, err := member.SoftDelete()
	require.NoError(t, err)

	_, err = member.UpdateInformation("New Name")
	assert.True(t, apperrors.IsCode(err, "ALREADY_DELETED"))

	_, err = member.ChangeStatus(MemberStatusSuspended)
	assert.True(t, apperrors.IsCode(err, "ALREADY_DELETED"))
}

func TestUpdatedAtNeverDecreases(t *testing.T) {
	member := newTestMember(t)
	last := member.UpdatedAt()

	for _, mutate := range []func() error{
		func() error { _, err := member.UpdateInformation("Name One"); return err },
		func() error { _, err := member.ChangeStatus(MemberStatusSuspended); return err },
		func() error { _, err := member.ChangeStatus(MemberStatusActive); return err },
		func() error { _, err := member.SoftDelete(); return err },
	} {
		require.NoError(t, mutate())
		assert.GreaterOrEqual(t, member.UpdatedAt().UnixNano(), last.UnixNano())
		assert.GreaterOrEqual(t, member.UpdatedAt().UnixNano(), member.CreatedAt().UnixNano())
		last = member.UpdatedAt()
	}
}

func TestRestoreMember(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)
	deletedAt := updatedAt

	member := RestoreMember(42, RestoreEmail("kim@example.com"), "  Kim ", MemberStatusInactive, createdAt, updatedAt, &deletedAt)

	assert.Equal(t, int64(42), member.ID())
	assert.Equal(t, "Kim", member.Name())
	assert.Equal(t, MemberStatusInactive, member.Status())
	assert.Equal(t, createdAt, member.CreatedAt())
	assert.Equal(t, updatedAt, member.UpdatedAt())
	require.NotNil(t, member.DeletedAt())
	assert.Equal(t, deletedAt, *member.DeletedAt())
	assert.False(t, member.IsActive())
}
