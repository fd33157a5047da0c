package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is embedded in Property. Coordinates are stored GeoJSON-style
// as [longitude, latitude] so the 2dsphere index can serve $near queries.
type Location struct {
	Address     string    `bson:"address" json:"address"`
	City        string    `bson:"city" json:"city"`
	State       string    `bson:"state" json:"state"`
	Pincode     string    `bson:"pincode" json:"pincode"`
	Coordinates []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Image struct {
	URL  string `bson:"url" json:"url"`
	Alt  string `bson:"alt" json:"alt"`
	Kind string `bson:"kind" json:"kind"`
}

type NearbyPlace struct {
	Name     string  `bson:"name" json:"name"`
	Kind     string  `bson:"kind" json:"kind"`
	Distance float64 `bson:"distance" json:"distance"`
}

// ContactSnapshot is the owner/agent contact card denormalized onto the
// property at create time. It is a snapshot, not a reference: later changes
// to the user document do not flow back into existing listings.
type ContactSnapshot struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	Email    string `bson:"email" json:"email"`
	Company  string `bson:"company,omitempty" json:"company,omitempty"`
	Verified bool   `bson:"verified" json:"verified"`
}

type Property struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	PricePerSqft    float64            `bson:"pricePerSqft,omitempty" json:"pricePerSqft,omitempty"`
	Area            float64            `bson:"area" json:"area"`
	Bedrooms        int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms       int                `bson:"bathrooms" json:"bathrooms"`
	PropertyType    string             `bson:"propertyType" json:"propertyType"`
	TransactionType string             `bson:"transactionType" json:"transactionType"`
	Location        Location           `bson:"location" json:"location"`
	Images          []Image            `bson:"images,omitempty" json:"images,omitempty"`
	Amenities       []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Features        []string           `bson:"features,omitempty" json:"features,omitempty"`
	Age             int                `bson:"age" json:"age"`
	Floor           int                `bson:"floor,omitempty" json:"floor,omitempty"`
	TotalFloors     int                `bson:"totalFloors,omitempty" json:"totalFloors,omitempty"`
	Furnishing      string             `bson:"furnishing" json:"furnishing"`
	Parking         int                `bson:"parking" json:"parking"`
	Balcony         int                `bson:"balcony" json:"balcony"`
	Owner           ContactSnapshot    `bson:"owner" json:"owner"`
	Agent           *ContactSnapshot   `bson:"agent,omitempty" json:"agent,omitempty"`
	Featured        bool               `bson:"featured" json:"featured"`
	Verified        bool               `bson:"verified" json:"verified"`
	VirtualTour     string             `bson:"virtualTour,omitempty" json:"virtualTour,omitempty"`
	FloorPlan       string             `bson:"floorPlan,omitempty" json:"floorPlan,omitempty"`
	NearbyPlaces    []NearbyPlace      `bson:"nearbyPlaces,omitempty" json:"nearbyPlaces,omitempty"`
	Views           int64              `bson:"views" json:"views"`
	Likes           int64              `bson:"likes" json:"likes"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Valid enum values. Anything else is rejected at create time.
var (
	PropertyTypes    = []string{"apartment", "house", "villa", "plot", "commercial"}
	TransactionTypes = []string{"buy", "rent", "sell"}
	Furnishings      = []string{"furnished", "semi-furnished", "unfurnished"}
)
