package app

import (
	"context"
	"fmt"
	"time"

	"flex_reviews/internal/domain"
)

const issueThreshold = 7.0

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListChannelReviews returns every review for the channel, chronological,
// with the listing-grouped view the dashboard renders from.
func (s *QueryService) ListChannelReviews(ctx context.Context, channel string) (domain.ReviewsPayload, error) {
	key := listCacheKey(channel)
	var out domain.ReviewsPayload
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rows, err := s.repo.FindByChannel(ctx, channel)
	if err != nil {
		return domain.ReviewsPayload{}, err
	}
	out = buildPayload(rows)

	// copy before caching so callers can't mutate the cached value
	_ = s.cache.Set(ctx, key, copyPayload(out), s.cacheTTL)
	return out, nil
}

// ListPublicReviews is the approved-only variant feeding the public site.
func (s *QueryService) ListPublicReviews(ctx context.Context, channel string) (domain.ReviewsPayload, error) {
	key := publicCacheKey(channel)
	var out domain.ReviewsPayload
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rows, err := s.repo.FindApprovedPublic(ctx, channel)
	if err != nil {
		return domain.ReviewsPayload{}, err
	}
	out = buildPayload(rows)

	_ = s.cache.Set(ctx, key, copyPayload(out), s.cacheTTL)
	return out, nil
}

// ListingInsight is the per-property KPI block the dashboard cards show.
type ListingInsight struct {
	Stats  Stats          `json:"stats"`
	Trend  Trend          `json:"trend"`
	Issues []CategoryStat `json:"issues"`
}

// ListingInsights aggregates every listing of the channel: rating stats,
// monthly trend, and category means running below the issue threshold.
func (s *QueryService) ListingInsights(ctx context.Context, channel string) (map[string]ListingInsight, error) {
	key := insightsCacheKey(channel)
	var out map[string]ListingInsight
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rows, err := s.repo.FindByChannel(ctx, channel)
	if err != nil {
		return nil, err
	}

	out = make(map[string]ListingInsight)
	for listing, group := range GroupByListing(rows) {
		out[listing] = ListingInsight{
			Stats:  AggregateStats(group),
			Trend:  MonthlyTrend(group),
			Issues: RecurringIssues(group, issueThreshold),
		}
	}

	_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	return out, nil
}

func buildPayload(rows []domain.Review) domain.ReviewsPayload {
	if rows == nil {
		rows = []domain.Review{}
	}
	return domain.ReviewsPayload{
		Status:           "success",
		Total:            len(rows),
		GroupedByListing: GroupByListing(rows),
		Result:           rows,
	}
}

func copyPayload(in domain.ReviewsPayload) domain.ReviewsPayload {
	out := domain.ReviewsPayload{Status: in.Status, Total: in.Total}
	out.Result = make([]domain.Review, len(in.Result))
	copy(out.Result, in.Result)
	out.GroupedByListing = make(map[string][]domain.Review, len(in.GroupedByListing))
	for k, v := range in.GroupedByListing {
		g := make([]domain.Review, len(v))
		copy(g, v)
		out.GroupedByListing[k] = g
	}
	return out
}

func listCacheKey(channel string) string     { return fmt.Sprintf("reviews:%s:all", channel) }
func publicCacheKey(channel string) string   { return fmt.Sprintf("reviews:%s:public", channel) }
func insightsCacheKey(channel string) string { return fmt.Sprintf("insights:%s", channel) }
