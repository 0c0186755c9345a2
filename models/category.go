package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID              primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Title           string              `json:"title" bson:"title"`
	Slug            string              `json:"slug" bson:"slug"`
	Description     string              `json:"description,omitempty" bson:"description,omitempty"`
	Image           string              `json:"image,omitempty" bson:"image,omitempty"`
	Icon            string              `json:"icon,omitempty" bson:"icon,omitempty"`
	Tags            []string            `json:"tags" bson:"tags"`
	MetaTitle       string              `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription string              `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	ParentCategory  *primitive.ObjectID `json:"parentCategory,omitempty" bson:"parentCategory,omitempty"` // nil for top-level
	IsFeatured      bool                `json:"isFeatured" bson:"isFeatured"`
	IsActive        bool                `json:"isActive" bson:"isActive"`
	CreatedBy       primitive.ObjectID  `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}
