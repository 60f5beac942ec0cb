package model

import "time"

// Portfolio is an owner-scoped resource published under a unique subdomain.
type Portfolio struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Subdomain    string         `json:"subdomain"`
	CustomDomain string         `json:"custom_domain,omitempty"`
	Content      map[string]any `json:"content"`
	ThemeConfig  map[string]any `json:"theme_config"`
	IsPublished  bool           `json:"is_published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PortfolioInput is the body for POST /portfolios. The subdomain must be
// unique across the collection.
type PortfolioInput struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Subdomain string `json:"subdomain" validate:"required,min=3,max=63,hostname_rfc1123"`
}

// PortfolioUpdate is the body for PUT /portfolios/:id. Nil fields are left
// unchanged.
type PortfolioUpdate struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Subdomain   *string         `json:"subdomain" validate:"omitempty,min=3,max=63,hostname_rfc1123"`
	Content     *map[string]any `json:"content"`
	ThemeConfig *map[string]any `json:"theme_config"`
	IsPublished *bool           `json:"is_published"`
}
