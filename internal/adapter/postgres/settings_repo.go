package postgres

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
)

const settingsID = "default"

// GetSettings returns the singleton settings row, or nil before the first save.
func (d *DB) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var s domain.SiteSettings
	err := d.sql.QueryRowContext(ctx,
		"SELECT whatsapp_number, instagram_url, facebook_url, twitter_url, updated_at FROM site_settings WHERE id = $1;",
		settingsID,
	).Scan(&s.WhatsappNumber, &s.InstagramURL, &s.FacebookURL, &s.TwitterURL, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings upserts the singleton settings row.
func (d *DB) SaveSettings(ctx context.Context, s *domain.SiteSettings) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO site_settings(id, whatsapp_number, instagram_url, facebook_url, twitter_url, updated_at)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET whatsapp_number = EXCLUDED.whatsapp_number,
			instagram_url = EXCLUDED.instagram_url, facebook_url = EXCLUDED.facebook_url,
			twitter_url = EXCLUDED.twitter_url, updated_at = EXCLUDED.updated_at;`,
		settingsID, s.WhatsappNumber, s.InstagramURL, s.FacebookURL, s.TwitterURL, s.UpdatedAt,
	)
	return err
}
