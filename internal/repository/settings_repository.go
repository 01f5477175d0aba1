package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// SiteEnabled reads the global switch. An absent row means enabled.
func (r *SettingsRepository) SiteEnabled(ctx context.Context) (bool, error) {
	const query = `SELECT enabled FROM site_settings WHERE key = $1`

	var enabled bool
	if err := r.pool.QueryRow(ctx, query, models.SiteSettingKeyEnabled).Scan(&enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, err
	}
	return enabled, nil
}

func (r *SettingsRepository) SetSiteEnabled(ctx context.Context, enabled bool, updatedBy string) error {
	const query = `
		INSERT INTO site_settings (key, enabled, updated_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET enabled = EXCLUDED.enabled, updated_by = EXCLUDED.updated_by, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, models.SiteSettingKeyEnabled, enabled, updatedBy)
	return err
}
