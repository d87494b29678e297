package domain

import (
	"context"
	"time"
)

// SiteSettings holds the storefront contact details. There is at most one row.
type SiteSettings struct {
	WhatsappNumber string    `json:"whatsappNumber"`
	InstagramURL   string    `json:"instagramUrl"`
	FacebookURL    string    `json:"facebookUrl"`
	TwitterURL     string    `json:"twitterUrl"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SettingsRepository is the port for the singleton settings row.
// GetSettings returns (nil, nil) before the first save.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*SiteSettings, error)
	SaveSettings(ctx context.Context, s *SiteSettings) error
}
