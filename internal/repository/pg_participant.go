package repository

import (
	"context"
	"log"
	"time"

	"SwapMarket/server/internal/db"
	"SwapMarket/server/internal/models"

	"github.com/Masterminds/squirrel"
)

type pgParticipantRepo struct{}

func NewPgParticipantRepo() ParticipantRepository {
	return &pgParticipantRepo{}
}

func (r *pgParticipantRepo) Add(ctx context.Context, threadID, userID int, asAdmin bool, at time.Time) (bool, error) {
	query := psql.Insert("thread_participants").
		Columns("thread_id", "user_id", "is_admin", "joined_at").
		Values(threadID, userID, asAdmin, at)
	if asAdmin {
		// An existing ordinary participant is upgraded in place; an
		// existing admin row is untouched so rows-affected stays 0 and the
		// caller sees the join as a no-op. joined_at is never reset.
		query = query.Suffix("ON CONFLICT (thread_id, user_id) DO UPDATE SET is_admin = TRUE WHERE thread_participants.is_admin = FALSE")
	} else {
		query = query.Suffix("ON CONFLICT (thread_id, user_id) DO NOTHING")
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return false, err
	}
	tag, err := db.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error adding participant %d to thread %d: %v", userID, threadID, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgParticipantRepo) Remove(ctx context.Context, threadID, userID int) (bool, error) {
	query := psql.Delete("thread_participants").
		Where(squirrel.Eq{"thread_id": threadID, "user_id": userID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return false, err
	}
	tag, err := db.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error removing participant %d from thread %d: %v", userID, threadID, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgParticipantRepo) IsParticipant(ctx context.Context, threadID, userID int) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"thread_id": threadID, "user_id": userID})
}

func (r *pgParticipantRepo) IsThreadAdmin(ctx context.Context, threadID, userID int) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"thread_id": threadID, "user_id": userID, "is_admin": true})
}

func (r *pgParticipantRepo) HasAdmin(ctx context.Context, threadID int) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"thread_id": threadID, "is_admin": true})
}

func (r *pgParticipantRepo) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	query := psql.Select("COUNT(*)").
		From("thread_participants").
		Where(where)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return false, err
	}
	var count int
	if err := db.Pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Printf("Error checking thread participants: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *pgParticipantRepo) ListByThread(ctx context.Context, threadID int) ([]models.Participant, error) {
	query := psql.Select("thread_id", "user_id", "is_admin", "joined_at").
		From("thread_participants").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("joined_at ASC", "user_id ASC")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error listing participants for thread %d: %v", threadID, err)
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ThreadID, &p.UserID, &p.IsAdmin, &p.JoinedAt); err != nil {
			log.Printf("Error scanning participant row: %v", err)
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
