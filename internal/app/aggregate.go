package app

import (
	"math"
	"sort"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// Filters is the dashboard's ephemeral filter configuration. Zero values mean
// "no constraint"; active predicates compose with logical AND.
type Filters struct {
	Listing   string
	Channel   string
	Category  string
	MinRating float64
	From      *time.Time
	To        *time.Time
	Search    string
	SortBy    string // "date" | "rating"
	SortDir   string // "asc" | "desc"
}

// GroupByListing buckets reviews by listing name, preserving input order
// within each bucket.
func GroupByListing(reviews []domain.Review) map[string][]domain.Review {
	out := make(map[string][]domain.Review)
	for _, r := range reviews {
		out[r.Listing] = append(out[r.Listing], r)
	}
	return out
}

// FilterReviews returns the reviews satisfying every active predicate.
// Date bounds only apply to reviews that carry a submission date.
func FilterReviews(reviews []domain.Review, f Filters) []domain.Review {
	q := strings.ToLower(f.Search)
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if f.Listing != "" && r.Listing != f.Listing {
			continue
		}
		if f.Channel != "" && r.Channel != f.Channel {
			continue
		}
		if f.MinRating != 0 {
			v := 0.0
			if r.Rating != nil {
				v = *r.Rating
			}
			if v < f.MinRating {
				continue
			}
		}
		if f.From != nil && r.SubmittedAt != nil && r.SubmittedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && r.SubmittedAt != nil && r.SubmittedAt.After(*f.To) {
			continue
		}
		if f.Category != "" && !hasCategory(r, f.Category) {
			continue
		}
		if q != "" {
			hay := strings.ToLower(r.Comment + " " + r.Guest + " " + r.Listing)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func hasCategory(r domain.Review, key string) bool {
	for _, c := range r.Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// SortReviews returns a sorted copy; the input is never mutated. Ties keep
// their original relative order. A missing rating sorts below every real one
// and a missing date sorts as time zero.
func SortReviews(reviews []domain.Review, sortBy, dir string) []domain.Review {
	s := make([]domain.Review, len(reviews))
	copy(s, reviews)
	mul := 1.0
	if dir == "desc" {
		mul = -1.0
	}

	if sortBy == "rating" {
		sort.SliceStable(s, func(i, j int) bool {
			return (ratingOrInf(s[i])-ratingOrInf(s[j]))*mul < 0
		})
		return s
	}
	sort.SliceStable(s, func(i, j int) bool {
		return float64(dateOrZero(s[i])-dateOrZero(s[j]))*mul < 0
	})
	return s
}

func ratingOrInf(r domain.Review) float64 {
	if r.Rating == nil {
		return math.Inf(-1)
	}
	return *r.Rating
}

func dateOrZero(r domain.Review) int64 {
	if r.SubmittedAt == nil {
		return 0
	}
	return r.SubmittedAt.UnixMilli()
}

// CategoryStat is a per-category mean, rounded to one decimal.
type CategoryStat struct {
	Key string  `json:"key"`
	Avg float64 `json:"avg"`
}

// Stats summarizes a review set for KPI display.
type Stats struct {
	Count      int            `json:"count"`
	AvgRating  *float64       `json:"avgRating"`
	Categories []CategoryStat `json:"categories"`
}

// AggregateStats computes the overall mean of present ratings plus one mean
// per distinct category key, in first-seen order.
func AggregateStats(reviews []domain.Review) Stats {
	var sum float64
	var n int
	for _, r := range reviews {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	var avg *float64
	if n > 0 {
		v := round1(sum / float64(n))
		avg = &v
	}

	return Stats{
		Count:      len(reviews),
		AvgRating:  avg,
		Categories: categoryMeans(reviews),
	}
}

func categoryMeans(reviews []domain.Review) []CategoryStat {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, r := range reviews {
		for _, c := range r.Categories {
			if c.Rating == nil {
				continue
			}
			if _, seen := counts[c.Key]; !seen {
				order = append(order, c.Key)
			}
			sums[c.Key] += *c.Rating
			counts[c.Key]++
		}
	}
	out := make([]CategoryStat, 0, len(order))
	for _, k := range order {
		out = append(out, CategoryStat{Key: k, Avg: round1(sums[k] / float64(counts[k]))})
	}
	return out
}

// TrendPoint is one calendar month's average rating.
type TrendPoint struct {
	Index int     `json:"i"`
	Month string  `json:"month"` // "YYYY-MM"
	Avg   float64 `json:"avg"`
}

// Trend is the chronological monthly series with a coarse slope:
// last month's average minus the first month's.
type Trend struct {
	Points []TrendPoint `json:"points"`
	Slope  float64      `json:"slope"`
}

// MonthlyTrend buckets reviews that have both a rating and a submission date
// into calendar months.
func MonthlyTrend(reviews []domain.Review) Trend {
	buckets := make(map[string][]float64)
	for _, r := range reviews {
		if r.SubmittedAt == nil || r.Rating == nil {
			continue
		}
		key := r.SubmittedAt.Format("2006-01")
		buckets[key] = append(buckets[key], *r.Rating)
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months) // lexical == chronological for YYYY-MM

	points := make([]TrendPoint, 0, len(months))
	for i, m := range months {
		vals := buckets[m]
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		points = append(points, TrendPoint{Index: i, Month: m, Avg: round2(sum / float64(len(vals)))})
	}

	slope := 0.0
	if len(points) >= 2 {
		slope = round2(points[len(points)-1].Avg - points[0].Avg)
	}
	return Trend{Points: points, Slope: slope}
}

// RecurringIssues returns the category means strictly below threshold,
// worst first.
func RecurringIssues(reviews []domain.Review, threshold float64) []CategoryStat {
	all := categoryMeans(reviews)
	out := make([]CategoryStat, 0, len(all))
	for _, c := range all {
		if c.Avg < threshold {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Avg < out[j].Avg })
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
