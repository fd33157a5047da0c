package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage statuses move new -> contacted -> closed.
type ContactMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject    string             `bson:"subject" json:"subject"`
	Message    string             `bson:"message" json:"message"`
	PropertyID primitive.ObjectID `bson:"propertyId,omitempty" json:"propertyId,omitempty"`
	Status     string             `bson:"status" json:"status"`
	Priority   string             `bson:"priority" json:"priority"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

var ContactStatuses = []string{"new", "contacted", "closed"}
