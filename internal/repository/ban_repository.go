package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

var ErrBanNotFound = errors.New("ban not found")

type BanRepository struct {
	pool *pgxpool.Pool
}

func NewBanRepository(pool *pgxpool.Pool) *BanRepository {
	return &BanRepository{pool: pool}
}

// FindMatch looks for a ban hitting either the device id or the observed ip.
// The two checks are independent OR conditions; an empty ip matches nothing.
func (r *BanRepository) FindMatch(ctx context.Context, deviceID string, ip string) (models.BannedDevice, models.BanMatch, error) {
	const query = `
		SELECT id, device_id, ip_address, banned_by, created_at
		FROM banned_devices
		WHERE device_id = $1 OR ($2 <> '' AND ip_address = $2)
		LIMIT 1
	`

	var ban models.BannedDevice
	if err := r.pool.QueryRow(ctx, query, deviceID, ip).Scan(
		&ban.ID,
		&ban.DeviceID,
		&ban.IPAddress,
		&ban.BannedBy,
		&ban.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BannedDevice{}, "", ErrBanNotFound
		}
		return models.BannedDevice{}, "", err
	}

	match := models.BanMatchIP
	if ban.DeviceID == deviceID {
		match = models.BanMatchDevice
	}
	return ban, match, nil
}

func (r *BanRepository) GetByDeviceID(ctx context.Context, deviceID string) (models.BannedDevice, error) {
	const query = `
		SELECT id, device_id, ip_address, banned_by, created_at
		FROM banned_devices
		WHERE device_id = $1
	`

	var ban models.BannedDevice
	if err := r.pool.QueryRow(ctx, query, deviceID).Scan(
		&ban.ID,
		&ban.DeviceID,
		&ban.IPAddress,
		&ban.BannedBy,
		&ban.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BannedDevice{}, ErrBanNotFound
		}
		return models.BannedDevice{}, err
	}
	return ban, nil
}

// Ban inserts the ban row and flips the session flag in one transaction so
// the cached flag can never disagree with the authoritative row.
func (r *BanRepository) Ban(ctx context.Context, ban models.BannedDevice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertBan = `
		INSERT INTO banned_devices (id, device_id, ip_address, banned_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (device_id)
		DO UPDATE SET ip_address = EXCLUDED.ip_address, banned_by = EXCLUDED.banned_by
	`
	if _, err := tx.Exec(ctx, insertBan, ban.ID, ban.DeviceID, ban.IPAddress, ban.BannedBy); err != nil {
		return err
	}

	const flagSession = `UPDATE sessions SET is_banned = TRUE WHERE device_id = $1`
	if _, err := tx.Exec(ctx, flagSession, ban.DeviceID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Unban removes the ban row and clears the session flag atomically.
func (r *BanRepository) Unban(ctx context.Context, deviceID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const deleteBan = `DELETE FROM banned_devices WHERE device_id = $1`
	cmd, err := tx.Exec(ctx, deleteBan, deviceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBanNotFound
	}

	const unflagSession = `UPDATE sessions SET is_banned = FALSE WHERE device_id = $1`
	if _, err := tx.Exec(ctx, unflagSession, deviceID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *BanRepository) List(ctx context.Context) ([]models.BannedDevice, error) {
	const query = `
		SELECT id, device_id, ip_address, banned_by, created_at
		FROM banned_devices
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bans []models.BannedDevice
	for rows.Next() {
		var ban models.BannedDevice
		if err := rows.Scan(
			&ban.ID,
			&ban.DeviceID,
			&ban.IPAddress,
			&ban.BannedBy,
			&ban.CreatedAt,
		); err != nil {
			return nil, err
		}
		bans = append(bans, ban)
	}
	return bans, rows.Err()
}
