package repository

import (
	"context"
	"errors"
	"log"

	"SwapMarket/server/internal/db"
	"SwapMarket/server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type pgMessageRepo struct{}

func NewPgMessageRepo() MessageRepository {
	return &pgMessageRepo{}
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toInts(ids []int64) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (r *pgMessageRepo) Append(ctx context.Context, msg *models.Message) error {
	query := psql.Insert("messages").
		Columns("thread_id", "sender_id", "kind", "content", "sent_at", "read_by").
		Values(msg.ThreadID, msg.SenderID, string(msg.Kind), msg.Content, msg.SentAt, toInt64s(msg.ReadBy)).
		Suffix("RETURNING id")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}
	if err := db.Pool.QueryRow(ctx, sqlStr, args...).Scan(&msg.ID); err != nil {
		log.Printf("Error appending message to thread %d: %v", msg.ThreadID, err)
		return err
	}
	return nil
}

func (r *pgMessageRepo) ListByThread(ctx context.Context, threadID int) ([]models.Message, error) {
	query := psql.Select("id", "thread_id", "sender_id", "kind", "content", "sent_at", "read_by").
		From("messages").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("sent_at ASC", "id ASC")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error listing messages for thread %d: %v", threadID, err)
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var kind string
		var readBy []int64
		if err := rows.Scan(&msg.ID, &msg.ThreadID, &msg.SenderID, &kind, &msg.Content, &msg.SentAt, &readBy); err != nil {
			log.Printf("Error scanning message row: %v", err)
			return nil, err
		}
		msg.Kind = models.MessageKind(kind)
		msg.ReadBy = toInts(readBy)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *pgMessageRepo) LastByThread(ctx context.Context, threadID int) (*models.Message, error) {
	query := psql.Select("id", "thread_id", "sender_id", "kind", "content", "sent_at", "read_by").
		From("messages").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("sent_at DESC", "id DESC").
		Limit(1)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	var msg models.Message
	var kind string
	var readBy []int64
	err = db.Pool.QueryRow(ctx, sqlStr, args...).
		Scan(&msg.ID, &msg.ThreadID, &msg.SenderID, &kind, &msg.Content, &msg.SentAt, &readBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error getting last message for thread %d: %v", threadID, err)
		return nil, err
	}
	msg.Kind = models.MessageKind(kind)
	msg.ReadBy = toInts(readBy)
	return &msg, nil
}

// MarkThreadRead is a single guarded UPDATE: the containment check in the
// WHERE clause plus Postgres row-level locking make each message's
// set-append atomic, so two concurrent calls for the same reader cannot
// double-append and concurrent calls for different readers append
// independently. Messages inserted after the statement's snapshot simply
// stay unread.
func (r *pgMessageRepo) MarkThreadRead(ctx context.Context, threadID, readerID int) error {
	query := psql.Update("messages").
		Set("read_by", squirrel.Expr("array_append(read_by, ?::bigint)", readerID)).
		Where(squirrel.Eq{"thread_id": threadID}).
		Where(squirrel.Expr("NOT (read_by @> ARRAY[?::bigint])", readerID))
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}
	if _, err := db.Pool.Exec(ctx, sqlStr, args...); err != nil {
		log.Printf("Error marking thread %d read for user %d: %v", threadID, readerID, err)
		return err
	}
	return nil
}

func (r *pgMessageRepo) UnreadCount(ctx context.Context, threadID, readerID int) (int, error) {
	query := psql.Select("COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"thread_id": threadID}).
		Where(squirrel.Expr("NOT (read_by @> ARRAY[?::bigint])", readerID))
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return 0, err
	}
	var count int
	if err := db.Pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Printf("Error counting unread messages in thread %d for user %d: %v", threadID, readerID, err)
		return 0, err
	}
	return count, nil
}
