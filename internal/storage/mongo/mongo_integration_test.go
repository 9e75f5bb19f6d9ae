//go:build integration || !unit

package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"flex_reviews/internal/domain"
	mongorepo "flex_reviews/internal/storage/mongo"
)

// ---------- small helpers ----------
func pfloat(f float64) *float64 { return &f }
func ptime(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func review(id, listing string, rating *float64, at *time.Time, approved bool) domain.Review {
	return domain.Review{
		Key:         domain.ReviewKey(domain.ChannelHostaway, id),
		ID:          id,
		Channel:     domain.ChannelHostaway,
		Type:        "guest-to-host",
		Status:      "published",
		Rating:      rating,
		Categories:  []domain.Category{{Key: "cleanliness", Rating: rating}},
		Comment:     "c",
		Guest:       "g",
		Listing:     listing,
		SubmittedAt: at,
		Approved:    approved,
	}
}

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		client, e = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if e != nil {
			return e
		}
		return client.Ping(ctx, readpref.Primary())
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("flexreviews_test")
}

// ---------- the tests ----------

func TestRepo_UpsertAndQueries(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	if err := repo.Upsert(ctx, review("1", "A", pfloat(9), ptime("2023-02-01"), false)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, review("2", "A", pfloat(7), ptime("2023-01-01"), true)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, review("3", "B", nil, nil, false)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// re-upserting the same key replaces, never duplicates
	updated := review("1", "A", pfloat(5), ptime("2023-02-01"), false)
	updated.Comment = "edited"
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	rows, err := repo.FindByChannel(ctx, domain.ChannelHostaway)
	if err != nil {
		t.Fatalf("FindByChannel: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(rows))
	}
	// ascending by submittedAt; the dateless review sorts first (missing field)
	if rows[1].ID != "2" || rows[2].ID != "1" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if rows[2].Comment != "edited" || *rows[2].Rating != 5 {
		t.Fatalf("replace did not stick: %+v", rows[2])
	}

	pub, err := repo.FindApprovedPublic(ctx, domain.ChannelHostaway)
	if err != nil {
		t.Fatalf("FindApprovedPublic: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != "2" {
		t.Fatalf("public filter: %+v", pub)
	}
}

func TestRepo_ToggleApproval(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, review("42", "A", pfloat(8), ptime("2023-01-01"), false)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	key := domain.ReviewKey(domain.ChannelHostaway, "42")
	on, err := repo.ToggleApproval(ctx, key)
	if err != nil || !on {
		t.Fatalf("first toggle: approved=%v err=%v", on, err)
	}
	off, err := repo.ToggleApproval(ctx, key)
	if err != nil || off {
		t.Fatalf("second toggle must restore: approved=%v err=%v", off, err)
	}

	// unknown id
	if _, err := repo.ToggleApproval(ctx, domain.ReviewKey(domain.ChannelHostaway, "999")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	rows, _ := repo.FindByChannel(ctx, domain.ChannelHostaway)
	if len(rows) != 1 || rows[0].Approved {
		t.Fatalf("failed toggle must leave the collection unchanged: %+v", rows)
	}
}
