package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flex_reviews/internal/domain"
)

const collection = "reviews"

type Repo struct{ col *mongo.Collection }

func New(db *mongo.Database) *Repo { return &Repo{col: db.Collection(collection)} }

// EnsureIndexes creates the unique identity index plus the secondary indexes
// the read paths sort and filter on. Safe to call on every startup.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "listing", Value: 1}, {Key: "submittedAt", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
		{Keys: bson.D{{Key: "channel", Value: 1}}},
	})
	return err
}

// Upsert inserts or replaces the review identified by its key.
func (r *Repo) Upsert(ctx context.Context, rv domain.Review) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"key": rv.Key},
		rv,
		options.Replace().SetUpsert(true),
	)
	return err
}

// ToggleApproval flips the approved flag in a single round trip and returns
// the new state. Concurrent toggles on the same key are last-write-wins.
func (r *Repo) ToggleApproval(ctx context.Context, key string) (bool, error) {
	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"key": key},
		bson.A{bson.M{"$set": bson.M{"approved": bson.M{"$not": "$approved"}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var rv domain.Review
	if err := res.Decode(&rv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return rv.Approved, nil
}

func (r *Repo) FindByChannel(ctx context.Context, channel string) ([]domain.Review, error) {
	return r.find(ctx, bson.M{"channel": channel})
}

func (r *Repo) FindApprovedPublic(ctx context.Context, channel string) ([]domain.Review, error) {
	return r.find(ctx, bson.M{"channel": channel, "approved": true})
}

func (r *Repo) find(ctx context.Context, filter bson.M) ([]domain.Review, error) {
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
