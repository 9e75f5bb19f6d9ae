package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

type ReviewRepository interface {
	// Write paths
	Upsert(ctx context.Context, rv Review) error
	ToggleApproval(ctx context.Context, key string) (bool, error)

	// Read paths, both ordered by submittedAt ascending
	FindByChannel(ctx context.Context, channel string) ([]Review, error)
	FindApprovedPublic(ctx context.Context, channel string) ([]Review, error)
}

// ReviewSource yields raw reviews in the channel's own wire shape.
type ReviewSource interface {
	FetchReviews(ctx context.Context, limit int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ReviewsPayload is the list-endpoint envelope.
type ReviewsPayload struct {
	Status           string              `json:"status"`
	Total            int                 `json:"total"`
	GroupedByListing map[string][]Review `json:"groupedByListing"`
	Result           []Review            `json:"result"`
}
