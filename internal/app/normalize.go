package app

import (
	"strconv"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

/********** tiny helpers **********/

// rawStr returns the string at key or "".
func rawStr(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// rawFloat: number from a raw field (float64/int/string like "8,0").
func rawFloat(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// rawID: external ids arrive as JSON numbers or strings; always stringify.
func rawID(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// parseSubmittedAt accepts the channel's space-separated "2006-01-02 15:04:05"
// form; the first space becomes the ISO separator before parsing.
func parseSubmittedAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	iso := strings.Replace(s, " ", "T", 1)
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, iso); err == nil {
			return &t
		}
	}
	return nil
}

/********** hostaway normalizer **********/

// NormalizeHostaway reshapes one raw Hostaway review into the canonical form.
// Malformed input degrades to defaults; it never fails.
func NormalizeHostaway(r map[string]any) domain.Review {
	var cats []domain.Category
	if raw, ok := r["reviewCategory"].([]any); ok {
		cats = make([]domain.Category, 0, len(raw))
		for _, it := range raw {
			c, ok := it.(map[string]any)
			if !ok {
				continue
			}
			cats = append(cats, domain.Category{
				Key:    rawStr(c, "category"),
				Rating: rawFloat(c, "rating"),
			})
		}
	}
	if cats == nil {
		cats = []domain.Category{}
	}

	// Overall rating falls back to the category average. The divisor is the
	// full category count, with unrated entries contributing zero; the system
	// being replaced behaves this way and seeded data must keep matching it.
	rating := rawFloat(r, "rating")
	if rating == nil && len(cats) > 0 {
		sum := 0.0
		for _, c := range cats {
			if c.Rating != nil {
				sum += *c.Rating
			}
		}
		avg := sum / float64(len(cats))
		rating = &avg
	}

	comment := rawStr(r, "publicReview")
	guest := rawStr(r, "guestName")
	if guest == "" {
		guest = "Guest"
	}
	listing := rawStr(r, "listingName")
	if listing == "" {
		listing = "Unknown Listing"
	}

	id := rawID(r, "id")
	return domain.Review{
		Key:         domain.ReviewKey(domain.ChannelHostaway, id),
		ID:          id,
		Channel:     domain.ChannelHostaway,
		Type:        rawStr(r, "type"),
		Status:      rawStr(r, "status"),
		Rating:      rating,
		Categories:  cats,
		Comment:     comment,
		Guest:       guest,
		Listing:     listing,
		SubmittedAt: parseSubmittedAt(rawStr(r, "submittedAt")),
	}
}
