package app

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain"
)

const minWhatsappLen = 10

// SettingsInput is the admin form for the site settings.
type SettingsInput struct {
	WhatsappNumber string
	InstagramURL   string
	FacebookURL    string
	TwitterURL     string
}

// SettingsService reads and updates the singleton site settings.
type SettingsService struct {
	repo domain.SettingsRepository
	now  func() time.Time
}

// NewSettingsService creates a SettingsService backed by the given repository.
func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo, now: time.Now}
}

// Get returns the current settings, or nil when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*domain.SiteSettings, error) {
	return s.repo.GetSettings(ctx)
}

// Update validates the input and creates or replaces the settings row.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*domain.SiteSettings, error) {
	whatsapp := strings.TrimSpace(in.WhatsappNumber)
	if len([]rune(whatsapp)) < minWhatsappLen {
		return nil, invalid("whatsappNumber", "Geçerli bir WhatsApp numarası giriniz")
	}
	urls := []struct {
		field string
		value *string
	}{
		{"instagramUrl", &in.InstagramURL},
		{"facebookUrl", &in.FacebookURL},
		{"twitterUrl", &in.TwitterURL},
	}
	for _, u := range urls {
		*u.value = strings.TrimSpace(*u.value)
		if *u.value != "" && !isHTTPURL(*u.value) {
			return nil, invalid(u.field, "Geçerli bir URL giriniz")
		}
	}

	settings := &domain.SiteSettings{
		WhatsappNumber: whatsapp,
		InstagramURL:   in.InstagramURL,
		FacebookURL:    in.FacebookURL,
		TwitterURL:     in.TwitterURL,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
