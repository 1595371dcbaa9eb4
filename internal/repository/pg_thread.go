package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"SwapMarket/server/internal/db"
	"SwapMarket/server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const threadColumns = "id, title, created_by, created_at, last_activity_at, archived, match_id, match_title, match_status"

type pgThreadRepo struct{}

func NewPgThreadRepo() ThreadRepository {
	return &pgThreadRepo{}
}

func scanThread(row pgx.Row) (*models.Thread, error) {
	var t models.Thread
	var matchID, matchTitle, matchStatus *string
	err := row.Scan(&t.ID, &t.Title, &t.CreatedBy, &t.CreatedAt, &t.LastActivityAt,
		&t.Archived, &matchID, &matchTitle, &matchStatus)
	if err != nil {
		return nil, err
	}
	if matchID != nil {
		ref := models.MatchRef{MatchID: *matchID}
		if matchTitle != nil {
			ref.Title = *matchTitle
		}
		if matchStatus != nil {
			ref.Status = *matchStatus
		}
		t.MatchRef = &ref
	}
	return &t, nil
}

func (r *pgThreadRepo) Create(ctx context.Context, title *string, createdBy int, now time.Time) (*models.Thread, error) {
	query := psql.Insert("threads").
		Columns("title", "created_by", "created_at", "last_activity_at").
		Values(title, createdBy, now, now).
		Suffix("RETURNING " + threadColumns)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}
	thread, err := scanThread(db.Pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		log.Printf("Error creating thread: %v", err)
		return nil, err
	}
	return thread, nil
}

func (r *pgThreadRepo) GetByID(ctx context.Context, threadID int) (*models.Thread, error) {
	query := psql.Select(threadColumns).
		From("threads").
		Where(squirrel.Eq{"id": threadID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}
	thread, err := scanThread(db.Pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error getting thread %d: %v", threadID, err)
		return nil, err
	}
	return thread, nil
}

func (r *pgThreadRepo) ListByUser(ctx context.Context, userID int) ([]models.Thread, error) {
	query := psql.Select(
		"threads.id", "threads.title", "threads.created_by", "threads.created_at",
		"threads.last_activity_at", "threads.archived",
		"threads.match_id", "threads.match_title", "threads.match_status").
		From("threads").
		Join("thread_participants ON threads.id = thread_participants.thread_id").
		Where(squirrel.Eq{"thread_participants.user_id": userID, "threads.archived": false}).
		OrderBy("threads.last_activity_at DESC")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error listing threads for user %d: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			log.Printf("Error scanning thread row: %v", err)
			return nil, err
		}
		threads = append(threads, *thread)
	}
	return threads, rows.Err()
}

func (r *pgThreadRepo) FindTwoParty(ctx context.Context, userA, userB int) (*models.Thread, error) {
	query := psql.Select(
		"threads.id", "threads.title", "threads.created_by", "threads.created_at",
		"threads.last_activity_at", "threads.archived",
		"threads.match_id", "threads.match_title", "threads.match_status").
		From("threads").
		Join("thread_participants pa ON threads.id = pa.thread_id").
		Join("thread_participants pb ON threads.id = pb.thread_id").
		Where(squirrel.Eq{"pa.user_id": userA, "pb.user_id": userB, "threads.archived": false}).
		Where("(SELECT COUNT(*) FROM thread_participants tp WHERE tp.thread_id = threads.id) = 2").
		OrderBy("threads.created_at ASC").
		Limit(1)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}
	thread, err := scanThread(db.Pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error finding two-party thread for users %d/%d: %v", userA, userB, err)
		return nil, err
	}
	return thread, nil
}

func (r *pgThreadRepo) BumpActivity(ctx context.Context, threadID int, at time.Time) error {
	// GREATEST keeps last_activity_at monotonic under concurrent bumps.
	query := psql.Update("threads").
		Set("last_activity_at", squirrel.Expr("GREATEST(last_activity_at, ?)", at)).
		Where(squirrel.Eq{"id": threadID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}
	tag, err := db.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error bumping activity for thread %d: %v", threadID, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgThreadRepo) SetArchived(ctx context.Context, threadID int, at time.Time) error {
	query := psql.Update("threads").
		Set("archived", true).
		Set("last_activity_at", squirrel.Expr("GREATEST(last_activity_at, ?)", at)).
		Where(squirrel.Eq{"id": threadID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}
	tag, err := db.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error archiving thread %d: %v", threadID, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgThreadRepo) SetMatchRef(ctx context.Context, threadID int, ref models.MatchRef) error {
	query := psql.Update("threads").
		Set("match_id", ref.MatchID).
		Set("match_title", ref.Title).
		Set("match_status", ref.Status).
		Where(squirrel.Eq{"id": threadID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}
	tag, err := db.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error linking match %s to thread %d: %v", ref.MatchID, threadID, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
