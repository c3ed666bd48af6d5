package scrape

import (
	"stylescraper/internal/core/session"
)

// CreateRequest is the body of POST /scraping-sessions.
type CreateRequest struct {
	URL     string        `json:"url" validate:"required,http_url"`
	Options *OptionsInput `json:"options"`
}

// OptionsInput lets callers omit individual flags; omitted flags take the
// dashboard defaults.
type OptionsInput struct {
	Images     *bool `json:"images"`
	Colors     *bool `json:"colors"`
	Typography *bool `json:"typography"`
	Content    *bool `json:"content"`
}

func (in *OptionsInput) Resolve() session.Options {
	opts := session.DefaultOptions()
	if in == nil {
		return opts
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&opts.Images, in.Images)
	set(&opts.Colors, in.Colors)
	set(&opts.Typography, in.Typography)
	set(&opts.Content, in.Content)
	return opts
}

// RecentParams binds GET /scraping-sessions/recent.
type RecentParams struct {
	Limit *int `form:"limit"`
}

// Job is the unit of background work, also the asynq task payload.
type Job struct {
	SessionID int             `json:"session_id"`
	URL       string          `json:"url"`
	Options   session.Options `json:"options"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}
