package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Upsert creates the session for a previously-unseen device or refreshes
// role, ip and last_active_at for a known one. The unique constraint on
// device_id is what makes concurrent first logins safe: the losing writer
// lands in the DO UPDATE branch instead of failing.
func (r *SessionRepository) Upsert(ctx context.Context, session models.Session) (models.Session, error) {
	const query = `
		INSERT INTO sessions (
			id, device_id, role, is_banned, ip_address, created_at, last_active_at
		) VALUES (
			$1, $2, $3, FALSE, $4, NOW(), NOW()
		)
		ON CONFLICT (device_id)
		DO UPDATE SET
			role = EXCLUDED.role,
			ip_address = EXCLUDED.ip_address,
			last_active_at = NOW()
		RETURNING id, device_id, role, is_banned, ip_address, created_at, last_active_at
	`

	row := r.pool.QueryRow(ctx, query,
		session.ID,
		session.DeviceID,
		session.Role,
		session.IPAddress,
	)
	return scanSession(row)
}

func (r *SessionRepository) GetByDeviceID(ctx context.Context, deviceID string) (models.Session, error) {
	const query = `
		SELECT id, device_id, role, is_banned, ip_address, created_at, last_active_at
		FROM sessions
		WHERE device_id = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, deviceID))
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	const query = `
		SELECT id, device_id, role, is_banned, ip_address, created_at, last_active_at
		FROM sessions
		WHERE id = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	const query = `
		SELECT id, device_id, role, is_banned, ip_address, created_at, last_active_at
		FROM sessions
		ORDER BY last_active_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	const query = `DELETE FROM sessions WHERE device_id = $1`
	cmd, err := r.pool.Exec(ctx, query, deviceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) UpdateRole(ctx context.Context, deviceID string, role models.Role) error {
	const query = `UPDATE sessions SET role = $2, last_active_at = NOW() WHERE device_id = $1`
	cmd, err := r.pool.Exec(ctx, query, deviceID, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Touch refreshes last_active_at and, when observed, the ip. Best effort;
// callers ignore the error.
func (r *SessionRepository) Touch(ctx context.Context, deviceID string, ip string) error {
	const query = `
		UPDATE sessions
		SET last_active_at = NOW(),
		    ip_address = COALESCE(NULLIF($2, ''), ip_address)
		WHERE device_id = $1
	`
	_, err := r.pool.Exec(ctx, query, deviceID, ip)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.DeviceID,
		&session.Role,
		&session.IsBanned,
		&session.IPAddress,
		&session.CreatedAt,
		&session.LastActiveAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}
