package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haeseoky/member-service/internal/events"
)

// OutboxRecord is one undelivered event row.
type OutboxRecord struct {
	ID         string
	MemberID   int64
	EventType  events.EventType
	Payload    []byte
	OccurredAt time.Time
	Attempts   int
	LastError  *string
}

// Event reconstructs the wire envelope from the stored row.
func (r OutboxRecord) Event() events.Event {
	return events.Event{
		ID:         r.ID,
		Type:       r.EventType,
		MemberID:   r.MemberID,
		Data:       json.RawMessage(r.Payload),
		OccurredAt: r.OccurredAt,
	}
}

// OutboxRepository reads and settles pending outbox rows. Rows are appended
// only inside MemberRepository.SaveWithEvent, never directly.
type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

type outboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository returns a Postgres-backed implementation.
func NewOutboxRepository(pool *pgxpool.Pool) OutboxRepository {
	return &outboxRepository{pool: pool}
}

// appendOutbox inserts the event row inside the caller's transaction.
func appendOutbox(ctx context.Context, tx pgx.Tx, event events.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO member_outbox (id, member_id, event_type, payload, occurred_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, query,
		event.ID,
		event.MemberID,
		string(event.Type),
		payload,
		event.OccurredAt,
	)
	return err
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	const query = `
        SELECT id, member_id, event_type, payload, occurred_at, attempts, last_error
        FROM member_outbox
        WHERE published_at IS NULL
        ORDER BY occurred_at
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		var eventType string
		if err := rows.Scan(&rec.ID, &rec.MemberID, &eventType, &rec.Payload, &rec.OccurredAt, &rec.Attempts, &rec.LastError); err != nil {
			return nil, err
		}
		rec.EventType = events.EventType(eventType)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string) error {
	const query = `
        UPDATE member_outbox SET published_at=NOW(), attempts=attempts+1, last_error=NULL
        WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	const query = `
        UPDATE member_outbox SET attempts=attempts+1, last_error=$2
        WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id, cause.Error())
	return err
}
