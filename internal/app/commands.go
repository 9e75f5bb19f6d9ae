package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

type IngestionService struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewIngestionService(r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{repo: r, cache: cache}
}

// IngestOne normalizes and upserts a single raw review. Upserting is
// idempotent by key, so re-running a seed is safe.
func (s *IngestionService) IngestOne(ctx context.Context, raw map[string]any) (string, error) {
	rv := NormalizeHostaway(raw)
	if rv.ID == "" {
		return "", fmt.Errorf("raw review has no id: %w", domain.ErrInvalidInput)
	}
	if err := s.repo.Upsert(ctx, rv); err != nil {
		return "", fmt.Errorf("upsert %s: %w", rv.Key, err)
	}
	return rv.Key, nil
}

// InvalidateLists drops every cached read derived from the channel's reviews.
// Called once after a batch rather than per review.
func (s *IngestionService) InvalidateLists(ctx context.Context, channel string) {
	if s.cache == nil {
		return
	}
	for _, k := range []string{listCacheKey(channel), publicCacheKey(channel), insightsCacheKey(channel)} {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}

// ToggleResult is the approval-toggle response body.
type ToggleResult struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

type ApprovalService struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewApprovalService(r domain.ReviewRepository, cache domain.Cache) *ApprovalService {
	return &ApprovalService{repo: r, cache: cache}
}

// Toggle flips the approval flag of the review with the given external id and
// returns the new state. Unknown ids surface domain.ErrNotFound.
func (s *ApprovalService) Toggle(ctx context.Context, id string) (ToggleResult, error) {
	if id == "" {
		return ToggleResult{}, fmt.Errorf("missing id: %w", domain.ErrInvalidInput)
	}
	key := domain.ReviewKey(domain.ChannelHostaway, id)
	approved, err := s.repo.ToggleApproval(ctx, key)
	if err != nil {
		return ToggleResult{}, err
	}

	// Approval changes what both list endpoints return.
	if s.cache != nil {
		for _, k := range []string{
			listCacheKey(domain.ChannelHostaway),
			publicCacheKey(domain.ChannelHostaway),
			insightsCacheKey(domain.ChannelHostaway),
		} {
			if derr := s.cache.Del(ctx, k); derr != nil {
				log.Warn().Err(derr).Str("key", k).Msg("cache invalidation failed")
			}
		}
	}
	return ToggleResult{Success: true, ID: id, Approved: approved}, nil
}
