package app_test

import (
	"reflect"
	"testing"
	"time"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func mkReview(id, listing string, rating *float64, at *time.Time) domain.Review {
	return domain.Review{
		Key: "hostaway:" + id, ID: id, Channel: "hostaway",
		Listing: listing, Rating: rating, SubmittedAt: at,
	}
}

func pf(f float64) *float64 { return &f }
func pt(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestGroupByListing(t *testing.T) {
	in := []domain.Review{
		mkReview("1", "Shoreditch Heights", pf(9), nil),
		mkReview("2", "Greenwich Loft", pf(7), nil),
		mkReview("3", "Shoreditch Heights", pf(8), nil),
		mkReview("4", "", nil, nil),
	}
	g := app.GroupByListing(in)
	if len(g) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(g))
	}
	sh := g["Shoreditch Heights"]
	if len(sh) != 2 || sh[0].ID != "1" || sh[1].ID != "3" {
		t.Fatalf("group must preserve input order: %+v", sh)
	}
	if len(g[""]) != 1 {
		t.Fatalf("empty listing still forms a group")
	}
}

func TestFilterReviews(t *testing.T) {
	in := []domain.Review{
		{ID: "1", Listing: "A", Channel: "hostaway", Rating: pf(9), SubmittedAt: pt("2023-01-10"), Comment: "Great stay", Guest: "Ana"},
		{ID: "2", Listing: "B", Channel: "hostaway", Rating: pf(4), SubmittedAt: pt("2023-03-01"), Comment: "noisy street", Guest: "Bob"},
		{ID: "3", Listing: "A", Channel: "other", Rating: nil, SubmittedAt: nil, Comment: "", Guest: "Cleo",
			Categories: []domain.Category{{Key: "cleanliness", Rating: pf(6)}}},
	}

	got := app.FilterReviews(in, app.Filters{Listing: "A"})
	if len(got) != 2 {
		t.Fatalf("listing filter: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{MinRating: 5})
	// a nil rating counts as zero against the floor
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("minRating filter: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{From: pt("2023-02-01")})
	// review 3 has no date and passes the bound vacuously
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("from filter: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{To: pt("2023-02-01")})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("to filter: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{Category: "cleanliness"})
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("category filter: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{Search: "GREAT"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("search should be case-insensitive: %+v", got)
	}

	got = app.FilterReviews(in, app.Filters{Search: "bob"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("search should match guest: %+v", got)
	}

	// predicates AND together
	got = app.FilterReviews(in, app.Filters{Listing: "A", Channel: "hostaway"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("combined filters: %+v", got)
	}

	if got := app.FilterReviews(in, app.Filters{}); len(got) != len(in) {
		t.Fatalf("empty filters must pass everything")
	}
}

func TestSortReviews_RatingDescIdempotent(t *testing.T) {
	in := []domain.Review{
		mkReview("1", "A", pf(6), nil),
		mkReview("2", "A", nil, nil),
		mkReview("3", "A", pf(9), nil),
		mkReview("4", "A", pf(6), nil),
	}
	once := app.SortReviews(in, "rating", "desc")
	twice := app.SortReviews(once, "rating", "desc")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sorting a sorted slice must be a no-op")
	}
	if once[0].ID != "3" || once[3].ID != "2" {
		t.Fatalf("nil rating must sort last in desc: %+v", once)
	}
	// ties keep input order
	if once[1].ID != "1" || once[2].ID != "4" {
		t.Fatalf("unstable tie order: %+v", once)
	}
	// input untouched
	if in[0].ID != "1" {
		t.Fatalf("input slice was mutated")
	}
}

func TestSortReviews_DateAsc(t *testing.T) {
	in := []domain.Review{
		mkReview("1", "A", nil, pt("2023-05-01")),
		mkReview("2", "A", nil, nil),
		mkReview("3", "A", nil, pt("2023-01-01")),
	}
	got := app.SortReviews(in, "date", "asc")
	// absent date sorts as time zero
	if got[0].ID != "2" || got[1].ID != "3" || got[2].ID != "1" {
		t.Fatalf("date asc order: %+v", got)
	}
}

func TestAggregateStats(t *testing.T) {
	in := []domain.Review{
		mkReview("1", "A", pf(8), nil),
		mkReview("2", "A", pf(6), nil),
		mkReview("3", "A", nil, nil),
	}
	st := app.AggregateStats(in)
	if st.Count != 3 {
		t.Fatalf("count: %d", st.Count)
	}
	if st.AvgRating == nil || *st.AvgRating != 7.0 {
		t.Fatalf("avgRating: %+v", st.AvgRating)
	}

	if st := app.AggregateStats(nil); st.AvgRating != nil || st.Count != 0 {
		t.Fatalf("empty input: %+v", st)
	}
}

func TestAggregateStats_Categories(t *testing.T) {
	in := []domain.Review{
		{ID: "1", Categories: []domain.Category{
			{Key: "cleanliness", Rating: pf(10)},
			{Key: "communication", Rating: pf(7)},
		}},
		{ID: "2", Categories: []domain.Category{
			{Key: "cleanliness", Rating: pf(5)},
			{Key: "location", Rating: nil}, // unrated, excluded from means
		}},
	}
	st := app.AggregateStats(in)
	want := []app.CategoryStat{
		{Key: "cleanliness", Avg: 7.5},
		{Key: "communication", Avg: 7},
	}
	if !reflect.DeepEqual(st.Categories, want) {
		t.Fatalf("category means: %+v", st.Categories)
	}
}

func TestMonthlyTrend(t *testing.T) {
	in := []domain.Review{
		mkReview("1", "A", pf(6), pt("2023-01-05")),
		mkReview("2", "A", pf(8), pt("2023-01-20")),
		mkReview("3", "A", pf(9), pt("2023-03-15")),
		mkReview("4", "A", nil, pt("2023-02-01")),   // no rating: skipped
		mkReview("5", "A", pf(2), nil),              // no date: skipped
	}
	tr := app.MonthlyTrend(in)
	if len(tr.Points) != 2 {
		t.Fatalf("expected 2 months, got %+v", tr.Points)
	}
	if tr.Points[0].Month != "2023-01" || tr.Points[0].Avg != 7.0 || tr.Points[0].Index != 0 {
		t.Fatalf("first point: %+v", tr.Points[0])
	}
	if tr.Points[1].Month != "2023-03" || tr.Points[1].Avg != 9.0 || tr.Points[1].Index != 1 {
		t.Fatalf("second point: %+v", tr.Points[1])
	}
	if tr.Slope != 2.0 {
		t.Fatalf("slope: %v", tr.Slope)
	}

	if tr := app.MonthlyTrend(in[:1]); tr.Slope != 0 {
		t.Fatalf("single month slope must be zero, got %v", tr.Slope)
	}
}

func TestRecurringIssues(t *testing.T) {
	in := []domain.Review{
		{ID: "1", Categories: []domain.Category{
			{Key: "cleanliness", Rating: pf(9)},
			{Key: "wifi", Rating: pf(4)},
			{Key: "noise", Rating: pf(6)},
		}},
	}
	got := app.RecurringIssues(in, 7)
	if len(got) != 2 {
		t.Fatalf("issues: %+v", got)
	}
	// worst first
	if got[0].Key != "wifi" || got[1].Key != "noise" {
		t.Fatalf("issue order: %+v", got)
	}

	if got := app.RecurringIssues(in, 4); len(got) != 0 {
		t.Fatalf("threshold is strict, got %+v", got)
	}
}
