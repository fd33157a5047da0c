package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NewsletterPreferences struct {
	PropertyTypes []string `bson:"propertyTypes,omitempty" json:"propertyTypes,omitempty"`
	Locations     []string `bson:"locations,omitempty" json:"locations,omitempty"`
	Frequency     string   `bson:"frequency,omitempty" json:"frequency,omitempty"`
}

type NewsletterSubscription struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Email       string                `bson:"email" json:"email"`
	Status      string                `bson:"status" json:"status"`
	Source      string                `bson:"source" json:"source"`
	Preferences NewsletterPreferences `bson:"preferences" json:"preferences"`
	CreatedAt   time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// NewsletterStats is the shape precomputed by the nightly job and served
// by the stats endpoint.
type NewsletterStats struct {
	Total        int64 `bson:"total" json:"total"`
	Active       int64 `bson:"active" json:"active"`
	Unsubscribed int64 `bson:"unsubscribed" json:"unsubscribed"`
	Recent       int64 `bson:"recent" json:"recent"`
}
