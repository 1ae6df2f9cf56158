package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/domain"
	"github.com/haeseoky/member-service/internal/events"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// fakeMemberRepo keeps restored copies of saved members, mirroring a real
// store: in-memory mutations become visible only after a successful save.
type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[int64]*domain.Member
	outbox  []events.Event
	saveErr error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int64]*domain.Member)}
}

func (r *fakeMemberRepo) snapshot(member *domain.Member) *domain.Member {
	return domain.RestoreMember(
		member.ID(),
		member.Email(),
		member.Name(),
		member.Status(),
		member.CreatedAt(),
		member.UpdatedAt(),
		member.DeletedAt(),
	)
}

func (r *fakeMemberRepo) Save(ctx context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.members[member.ID()] = r.snapshot(member)
	return nil
}

func (r *fakeMemberRepo) SaveWithEvent(ctx context.Context, member *domain.Member, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.members[member.ID()] = r.snapshot(member)
	r.outbox = append(r.outbox, event)
	return nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.snapshot(member), nil
}

func (r *fakeMemberRepo) FindAll(ctx context.Context) ([]*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]*domain.Member, 0, len(r.members))
	for _, member := range r.members {
		members = append(members, r.snapshot(member))
	}
	return members, nil
}

func (r *fakeMemberRepo) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members {
		if member.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	return nil
}

func newCommandService(repo *fakeMemberRepo) *MemberCommandService {
	return NewMemberCommandService(CommandDependencies{
		MemberRepo: repo,
		Cache:      nil,
		Logger:     zap.NewNop(),
	})
}

func TestCreateMemberNormalizesAndPersists(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "A@Ex.com", "Bob")
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), member.ID())
	require.NoError(t, err)
	assert.Equal(t, "a@ex.com", stored.Email().String())
	assert.Equal(t, domain.MemberStatusActive, stored.Status())
	assert.Nil(t, stored.DeletedAt())

	require.Len(t, repo.outbox, 1)
	assert.Equal(t, events.EventMemberCreated, repo.outbox[0].Type)
	assert.Equal(t, member.ID(), repo.outbox[0].MemberID)
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	_, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	// same mailbox with different case still collides
	_, err = svc.CreateMember(context.Background(), "BOB@Example.com", "Bobby")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Len(t, repo.outbox, 1)
}

func TestCreateMemberInvalidInput(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	_, err := svc.CreateMember(context.Background(), "not-an-email", "Bob")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.CreateMember(context.Background(), "bob@example.com", "  ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	assert.Empty(t, repo.outbox)
	assert.Empty(t, repo.members)
}

func TestUpdateMemberInformation(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	updated, err := svc.UpdateMemberInformation(context.Background(), member.ID(), " Robert ")
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name())

	require.Len(t, repo.outbox, 2)
	assert.Equal(t, events.EventMemberUpdated, repo.outbox[1].Type)
	assert.Equal(t, events.MemberUpdatedPayload{OldName: "Bob", NewName: "Robert"}, repo.outbox[1].Data)
}

func TestUpdateMemberInformationUnknownID(t *testing.T) {
	svc := newCommandService(newFakeMemberRepo())

	_, err := svc.UpdateMemberInformation(context.Background(), 12345, "Name")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = svc.UpdateMemberInformation(context.Background(), 0, "Name")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.UpdateMemberInformation(context.Background(), -3, "Name")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestChangeMemberStatusFlow(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	suspended, err := svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusSuspended, suspended.Status())

	// no self-loop: repeating the same transition is a conflict
	_, err = svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusSuspended)
	assert.True(t, apperrors.IsCode(err, "ILLEGAL_STATE_TRANSITION"))

	require.Len(t, repo.outbox, 2)
	assert.Equal(t, events.MemberStatusChangedPayload{OldStatus: "ACTIVE", NewStatus: "SUSPENDED"}, repo.outbox[1].Data)
}

func TestChangeMemberStatusInactiveReactivation(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	_, err = svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusInactive)
	require.NoError(t, err)

	_, err = svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusActive)
	assert.True(t, apperrors.IsCode(err, "ILLEGAL_STATE_TRANSITION"))

	_, err = svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusSuspended)
	require.NoError(t, err)
	reactivated, err := svc.ChangeMemberStatus(context.Background(), member.ID(), domain.MemberStatusActive)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive())
}

func TestDeleteMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMember(context.Background(), member.ID()))

	stored, err := repo.FindByID(context.Background(), member.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusInactive, stored.Status())
	assert.NotNil(t, stored.DeletedAt())

	require.Len(t, repo.outbox, 2)
	assert.Equal(t, events.EventMemberDeleted, repo.outbox[1].Type)
	assert.Equal(t, events.MemberDeletedPayload{Email: "bob@example.com"}, repo.outbox[1].Data)

	err = svc.DeleteMember(context.Background(), member.ID())
	assert.True(t, apperrors.IsCode(err, "ALREADY_DELETED"))
	assert.Len(t, repo.outbox, 2)
}

func TestStorageFailureDiscardsMutation(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	repo.saveErr = assert.AnError
	_, err = svc.UpdateMemberInformation(context.Background(), member.ID(), "Robert")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "STORAGE_ERROR"))
	repo.saveErr = nil

	// the failed mutation never became durable, and no event was appended
	stored, err := repo.FindByID(context.Background(), member.ID())
	require.NoError(t, err)
	assert.Equal(t, "Bob", stored.Name())
	assert.Len(t, repo.outbox, 1)
}

func TestPurgeMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newCommandService(repo)

	member, err := svc.CreateMember(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.PurgeMember(context.Background(), member.ID()))

	_, err = repo.FindByID(context.Background(), member.ID())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	// purge emits no event
	assert.Len(t, repo.outbox, 1)
}
