package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/domain"
)

// MemberCache is a best-effort read-through cache of members by id. Misses
// and Redis failures degrade to the repository; the cache never becomes a
// source of truth.
type MemberCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewMemberCache creates the cache.
func NewMemberCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *MemberCache {
	return &MemberCache{client: client, ttl: ttl, logger: logger}
}

type cachedMember struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func memberKey(id int64) string {
	return fmt.Sprintf("member:%d", id)
}

// Get returns the cached member and whether the lookup hit.
func (c *MemberCache) Get(ctx context.Context, id int64) (*domain.Member, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, memberKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("member cache read failed", zap.Int64("member_id", id), zap.Error(err))
		}
		return nil, false
	}

	var entry cachedMember
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("member cache entry corrupt", zap.Int64("member_id", id), zap.Error(err))
		return nil, false
	}

	return domain.RestoreMember(
		entry.ID,
		domain.RestoreEmail(entry.Email),
		entry.Name,
		domain.MemberStatus(entry.Status),
		entry.CreatedAt,
		entry.UpdatedAt,
		entry.DeletedAt,
	), true
}

// Set stores the member with the configured TTL.
func (c *MemberCache) Set(ctx context.Context, member *domain.Member) {
	if c == nil || c.client == nil {
		return
	}

	entry := cachedMember{
		ID:        member.ID(),
		Email:     member.Email().String(),
		Name:      member.Name(),
		Status:    string(member.Status()),
		CreatedAt: member.CreatedAt(),
		UpdatedAt: member.UpdatedAt(),
		DeletedAt: member.DeletedAt(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("member cache encode failed", zap.Int64("member_id", member.ID()), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, memberKey(member.ID()), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("member cache write failed", zap.Int64("member_id", member.ID()), zap.Error(err))
	}
}

// Invalidate drops the cached entry after a mutation.
func (c *MemberCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, memberKey(id)).Err(); err != nil {
		c.logger.Warn("member cache invalidate failed", zap.Int64("member_id", id), zap.Error(err))
	}
}
