package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haeseoky/member-service/internal/domain"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

func seedMembers(t *testing.T, repo *fakeMemberRepo) (active, suspended, deleted *domain.Member) {
	t.Helper()
	svc := newCommandService(repo)
	ctx := context.Background()

	active, err := svc.CreateMember(ctx, "active@example.com", "Active")
	require.NoError(t, err)

	suspended, err = svc.CreateMember(ctx, "suspended@example.com", "Suspended")
	require.NoError(t, err)
	_, err = svc.ChangeMemberStatus(ctx, suspended.ID(), domain.MemberStatusSuspended)
	require.NoError(t, err)

	deleted, err = svc.CreateMember(ctx, "deleted@example.com", "Deleted")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMember(ctx, deleted.ID()))

	return active, suspended, deleted
}

func TestGetMemberByID(t *testing.T) {
	repo := newFakeMemberRepo()
	active, _, _ := seedMembers(t, repo)
	queries := NewMemberQueryService(repo, nil)

	member, err := queries.GetMemberByID(context.Background(), active.ID())
	require.NoError(t, err)
	assert.Equal(t, "active@example.com", member.Email().String())

	_, err = queries.GetMemberByID(context.Background(), 99999)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = queries.GetMemberByID(context.Background(), 0)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestGetAllMembersIncludesDeleted(t *testing.T) {
	repo := newFakeMemberRepo()
	seedMembers(t, repo)
	queries := NewMemberQueryService(repo, nil)

	members, err := queries.GetAllMembers(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestGetActiveMembersFilters(t *testing.T) {
	repo := newFakeMemberRepo()
	active, _, _ := seedMembers(t, repo)
	queries := NewMemberQueryService(repo, nil)

	members, err := queries.GetActiveMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, active.ID(), members[0].ID())
	assert.True(t, members[0].IsActive())
}
