package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/haeseoky/member-service/internal/cache"
	"github.com/haeseoky/member-service/internal/domain"
	"github.com/haeseoky/member-service/internal/repository"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// MemberQueryService serves read-only member lookups, fronted by the Redis
// cache for single-member reads.
type MemberQueryService struct {
	members repository.MemberRepository
	cache   *cache.MemberCache
}

// NewMemberQueryService constructs the service.
func NewMemberQueryService(members repository.MemberRepository, memberCache *cache.MemberCache) *MemberQueryService {
	return &MemberQueryService{members: members, cache: memberCache}
}

// GetMemberByID fetches one member, consulting the cache first.
func (s *MemberQueryService) GetMemberByID(ctx context.Context, memberID int64) (*domain.Member, error) {
	if err := validateID(memberID); err != nil {
		return nil, err
	}

	if member, ok := s.cache.Get(ctx, memberID); ok {
		return member, nil
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.cache.Set(ctx, member)
	return member, nil
}

// GetAllMembers lists every member, soft-deleted ones included.
func (s *MemberQueryService) GetAllMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.members.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return members, nil
}

// GetActiveMembers lists members that are ACTIVE and not soft-deleted.
func (s *MemberQueryService) GetActiveMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.members.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	active := make([]*domain.Member, 0, len(members))
	for _, member := range members {
		if member.IsActive() {
			active = append(active, member)
		}
	}
	return active, nil
}
