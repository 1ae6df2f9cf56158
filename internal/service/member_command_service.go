package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/cache"
	"github.com/haeseoky/member-service/internal/domain"
	"github.com/haeseoky/member-service/internal/repository"
	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// MemberCommandService coordinates member state changes. Every use case
// invokes exactly one aggregate mutation and persists the new state together
// with its event in a single transaction; delivery to the event port happens
// afterwards from the outbox, so consumers never observe an event whose
// state is not yet durable.
type MemberCommandService struct {
	members repository.MemberRepository
	cache   *cache.MemberCache
	logger  *zap.Logger
}

// CommandDependencies bundles collaborators for the command service.
type CommandDependencies struct {
	MemberRepo repository.MemberRepository
	Cache      *cache.MemberCache
	Logger     *zap.Logger
}

// NewMemberCommandService constructs the service.
func NewMemberCommandService(deps CommandDependencies) *MemberCommandService {
	return &MemberCommandService{
		members: deps.MemberRepo,
		cache:   deps.Cache,
		logger:  deps.Logger,
	}
}

// CreateMember registers a new member with a unique email.
func (s *MemberCommandService) CreateMember(ctx context.Context, rawEmail, name string) (*domain.Member, error) {
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	exists, err := s.members.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if exists {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("member with email '%s' already exists", email.String()),
			map[string]any{"email": email.String()},
		)
	}

	member, event, err := domain.NewMember(email, name)
	if err != nil {
		return nil, err
	}

	if err := s.members.SaveWithEvent(ctx, member, event); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.logger.Info("member created",
		zap.Int64("member_id", member.ID()),
		zap.String("email", member.Email().String()))
	return member, nil
}

// UpdateMemberInformation renames an existing member.
func (s *MemberCommandService) UpdateMemberInformation(ctx context.Context, memberID int64, newName string) (*domain.Member, error) {
	if err := validateID(memberID); err != nil {
		return nil, err
	}
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	event, err := member.UpdateInformation(newName)
	if err != nil {
		return nil, err
	}

	if err := s.members.SaveWithEvent(ctx, member, event); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	s.cache.Invalidate(ctx, memberID)

	s.logger.Info("member updated", zap.Int64("member_id", memberID))
	return member, nil
}

// ChangeMemberStatus applies a lifecycle transition.
func (s *MemberCommandService) ChangeMemberStatus(ctx context.Context, memberID int64, newStatus domain.MemberStatus) (*domain.Member, error) {
	if err := validateID(memberID); err != nil {
		return nil, err
	}
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	event, err := member.ChangeStatus(newStatus)
	if err != nil {
		return nil, err
	}

	if err := s.members.SaveWithEvent(ctx, member, event); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	s.cache.Invalidate(ctx, memberID)

	s.logger.Info("member status changed",
		zap.Int64("member_id", memberID),
		zap.String("status", string(member.Status())))
	return member, nil
}

// DeleteMember soft-deletes a member. The record stays in storage with
// status INACTIVE and a deletion timestamp.
func (s *MemberCommandService) DeleteMember(ctx context.Context, memberID int64) error {
	if err := validateID(memberID); err != nil {
		return err
	}
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return err
	}

	event, err := member.SoftDelete()
	if err != nil {
		return err
	}

	if err := s.members.SaveWithEvent(ctx, member, event); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.cache.Invalidate(ctx, memberID)

	s.logger.Info("member deleted", zap.Int64("member_id", memberID))
	return nil
}

// PurgeMember hard-deletes the member row. Administrative use only; no
// event is emitted for a purge.
func (s *MemberCommandService) PurgeMember(ctx context.Context, memberID int64) error {
	if err := validateID(memberID); err != nil {
		return err
	}

	if err := s.members.DeleteByID(ctx, memberID); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.cache.Invalidate(ctx, memberID)

	s.logger.Info("member purged", zap.Int64("member_id", memberID))
	return nil
}

func (s *MemberCommandService) findMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.NewStorageError(err)
	}
	return member, nil
}

func validateID(memberID int64) error {
	if memberID <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid member id: %d", memberID),
			map[string]any{"member_id": memberID},
		)
	}
	return nil
}
