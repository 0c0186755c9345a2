package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Wishlist struct {
	ID        primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Products  []primitive.ObjectID `json:"products" bson:"products"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`

	Items []ProductSummary `json:"items,omitempty" bson:"-"`
}

func (w *Wishlist) Contains(productID primitive.ObjectID) bool {
	for _, id := range w.Products {
		if id == productID {
			return true
		}
	}
	return false
}

type WishlistToggleResult struct {
	Message  string    `json:"message"`
	Added    bool      `json:"added"`
	Wishlist *Wishlist `json:"wishlist"`
}
