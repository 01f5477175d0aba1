package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Upsert(ctx context.Context, sessionID string, username string) (models.Profile, error) {
	const query = `
		INSERT INTO profiles (session_id, username, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING session_id, username, created_at, updated_at
	`

	var profile models.Profile
	if err := r.pool.QueryRow(ctx, query, sessionID, username).Scan(
		&profile.SessionID,
		&profile.Username,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) GetBySessionID(ctx context.Context, sessionID string) (models.Profile, error) {
	const query = `
		SELECT session_id, username, created_at, updated_at
		FROM profiles
		WHERE session_id = $1
	`

	var profile models.Profile
	if err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&profile.SessionID,
		&profile.Username,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	return profile, nil
}
