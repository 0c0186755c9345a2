package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User       primitive.ObjectID `json:"user" bson:"user"`
	Product    primitive.ObjectID `json:"product" bson:"product"`
	Rating     int                `json:"rating" bson:"rating"`
	Comment    string             `json:"comment" bson:"comment"`
	IsApproved bool               `json:"isApproved" bson:"isApproved"`
	Images     []string           `json:"images" bson:"images"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`

	Reviewer       *UserSummary    `json:"reviewer,omitempty" bson:"-"`
	ProductDetails *ProductSummary `json:"productDetails,omitempty" bson:"-"`
}

// RatingStats is the aggregate of approved reviews for one product.
type RatingStats struct {
	Average float64
	Count   int
}
