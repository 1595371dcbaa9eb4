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

type pgUserRepo struct{}

func NewPgUserRepo() UserRepository {
	return &pgUserRepo{}
}

func (r *pgUserRepo) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := psql.Select("id", "username", "is_admin").
		From("users").
		Where(squirrel.Eq{"id": userID})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}
	var user models.User
	err = db.Pool.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Username, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error getting user %d: %v", userID, err)
		return nil, err
	}
	return &user, nil
}

func (r *pgUserRepo) GetByIDs(ctx context.Context, userIDs []int) ([]models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := psql.Select("id", "username", "is_admin").
		From("users").
		Where(squirrel.Eq{"id": userIDs})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error getting users by ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.IsAdmin); err != nil {
			log.Printf("Error scanning user row: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
