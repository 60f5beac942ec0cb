package model

import "time"

// Resume belongs to exactly one user; every query is scoped by owner.
// Deleted resumes stay in the collection with DeletedAt set (soft delete).
type Resume struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Content      map[string]any `json:"content"`
	ThemeConfig  map[string]any `json:"theme_config"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	IsPublic     bool           `json:"is_public"`
	Slug         string         `json:"slug,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ResumeInput is the body for POST /resumes.
type ResumeInput struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	TemplateID string `json:"template_id" validate:"omitempty,max=100"`
}

// ResumeUpdate is the body for PUT /resumes/:id. All fields are optional;
// nil means "leave unchanged" (partial update).
type ResumeUpdate struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Content     *map[string]any `json:"content"`
	ThemeConfig *map[string]any `json:"theme_config"`
	IsPublic    *bool           `json:"is_public"`
	Slug        *string         `json:"slug" validate:"omitempty,min=1,max=100,lowercase"`
}
