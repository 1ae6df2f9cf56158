package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haeseoky/member-service/internal/domain"
	"github.com/haeseoky/member-service/internal/events"
)

// MemberRepository defines persistence access for members. SaveWithEvent is
// the transactional-outbox write path: the member row and the event row
// commit or roll back together, so a published event always implies durable
// state.
type MemberRepository interface {
	Save(ctx context.Context, member *domain.Member) error
	SaveWithEvent(ctx context.Context, member *domain.Member, event events.Event) error
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
	FindAll(ctx context.Context) ([]*domain.Member, error)
	ExistsByEmail(ctx context.Context, email domain.Email) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

const memberUpsertQuery = `
        INSERT INTO members (id, email, name, status, created_at, updated_at, deleted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE
        SET email=EXCLUDED.email, name=EXCLUDED.name, status=EXCLUDED.status,
            updated_at=EXCLUDED.updated_at, deleted_at=EXCLUDED.deleted_at`

const memberSelectColumns = `id, email, name, status, created_at, updated_at, deleted_at`

func (r *memberRepository) Save(ctx context.Context, member *domain.Member) error {
	_, err := r.pool.Exec(ctx, memberUpsertQuery,
		member.ID(),
		member.Email().String(),
		member.Name(),
		string(member.Status()),
		member.CreatedAt(),
		member.UpdatedAt(),
		member.DeletedAt(),
	)
	return err
}

func (r *memberRepository) SaveWithEvent(ctx context.Context, member *domain.Member, event events.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, memberUpsertQuery,
		member.ID(),
		member.Email().String(),
		member.Name(),
		string(member.Status()),
		member.CreatedAt(),
		member.UpdatedAt(),
		member.DeletedAt(),
	); err != nil {
		return err
	}

	if err := appendOutbox(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *memberRepository) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `
        SELECT ` + memberSelectColumns + `
        FROM members WHERE id=$1`

	return scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *memberRepository) FindAll(ctx context.Context) ([]*domain.Member, error) {
	const query = `
        SELECT ` + memberSelectColumns + `
        FROM members ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM members WHERE email=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email.String()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *memberRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM members WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var (
		id        int64
		email     string
		name      string
		status    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt *time.Time
	)
	if err := row.Scan(&id, &email, &name, &status, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	return domain.RestoreMember(
		id,
		domain.RestoreEmail(email),
		name,
		domain.MemberStatus(status),
		createdAt,
		updatedAt,
		deletedAt,
	), nil
}
