package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

var (
	ErrWaitlistNotFound        = errors.New("waiting list entry not found")
	ErrWaitlistAlreadyReviewed = errors.New("waiting list entry already reviewed")
)

type WaitlistRepository struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

// CreateIfAbsent inserts a pending entry unless the device already has one.
// The unique constraint on device_id absorbs concurrent first logins: the
// loser's insert becomes a no-op and both callers see the pending state.
func (r *WaitlistRepository) CreateIfAbsent(ctx context.Context, entry models.WaitingListEntry) (bool, error) {
	const query = `
		INSERT INTO waiting_list (id, device_id, ip_address, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (device_id) DO NOTHING
	`

	cmd, err := r.pool.Exec(ctx, query, entry.ID, entry.DeviceID, entry.IPAddress, models.WaitlistPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *WaitlistRepository) GetByDeviceID(ctx context.Context, deviceID string) (models.WaitingListEntry, error) {
	const query = `
		SELECT id, device_id, ip_address, status, reviewed_by, reviewed_at, created_at
		FROM waiting_list
		WHERE device_id = $1
	`
	return scanWaitlistEntry(r.pool.QueryRow(ctx, query, deviceID))
}

func (r *WaitlistRepository) GetByID(ctx context.Context, id string) (models.WaitingListEntry, error) {
	const query = `
		SELECT id, device_id, ip_address, status, reviewed_by, reviewed_at, created_at
		FROM waiting_list
		WHERE id = $1
	`
	return scanWaitlistEntry(r.pool.QueryRow(ctx, query, id))
}

func (r *WaitlistRepository) List(ctx context.Context) ([]models.WaitingListEntry, error) {
	const query = `
		SELECT id, device_id, ip_address, status, reviewed_by, reviewed_at, created_at
		FROM waiting_list
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WaitingListEntry
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Review transitions a pending entry to approved or denied. The status guard
// in the WHERE clause makes the transition one-shot: a second review loses
// the race and reports ErrWaitlistAlreadyReviewed.
func (r *WaitlistRepository) Review(ctx context.Context, id string, status models.WaitlistStatus, reviewerSessionID string) (models.WaitingListEntry, error) {
	const query = `
		UPDATE waiting_list
		SET status = $2, reviewed_by = $3, reviewed_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING id, device_id, ip_address, status, reviewed_by, reviewed_at, created_at
	`

	entry, err := scanWaitlistEntry(r.pool.QueryRow(ctx, query, id, status, reviewerSessionID, models.WaitlistPending))
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, ErrWaitlistNotFound) {
		return models.WaitingListEntry{}, err
	}

	// Disambiguate: missing entry vs. already-reviewed entry.
	if _, getErr := r.GetByID(ctx, id); getErr == nil {
		return models.WaitingListEntry{}, ErrWaitlistAlreadyReviewed
	}
	return models.WaitingListEntry{}, ErrWaitlistNotFound
}

func scanWaitlistEntry(row rowScanner) (models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	if err := row.Scan(
		&entry.ID,
		&entry.DeviceID,
		&entry.IPAddress,
		&entry.Status,
		&entry.ReviewedBy,
		&entry.ReviewedAt,
		&entry.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WaitingListEntry{}, ErrWaitlistNotFound
		}
		return models.WaitingListEntry{}, err
	}
	return entry, nil
}
