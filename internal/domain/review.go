package domain

import "time"

// ChannelHostaway is the only integrated review source.
const ChannelHostaway = "hostaway"

// ReviewKey builds the composite identity key, e.g. "hostaway:7453".
func ReviewKey(channel, id string) string { return channel + ":" + id }

// Category is one rated dimension of a review (cleanliness, communication, ...).
type Category struct {
	Key    string   `bson:"key" json:"key"`
	Rating *float64 `bson:"rating" json:"rating"`
}

// Review is the canonical guest review, independent of source format.
// Approved is the only field that changes after creation.
type Review struct {
	Key         string     `bson:"key" json:"key"`
	ID          string     `bson:"id" json:"id"`
	Channel     string     `bson:"channel" json:"channel"`
	Type        string     `bson:"type" json:"type"`
	Status      string     `bson:"status" json:"status"`
	Rating      *float64   `bson:"rating" json:"rating"`
	Categories  []Category `bson:"categories" json:"categories"`
	Comment     string     `bson:"comment" json:"comment"`
	Guest       string     `bson:"guest" json:"guest"`
	Listing     string     `bson:"listing" json:"listing"`
	SubmittedAt *time.Time `bson:"submittedAt" json:"submittedAt"`
	Approved    bool       `bson:"approved" json:"approved"`
}
