package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product       primitive.ObjectID `json:"product" bson:"product"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Price         float64            `json:"price" bson:"price"` // snapshot at add time
	SelectedColor string             `json:"selectedColor,omitempty" bson:"selectedColor,omitempty"`
	SelectedSize  string             `json:"selectedSize,omitempty" bson:"selectedSize,omitempty"`

	ProductDetails *ProductSummary `json:"productDetails,omitempty" bson:"-"`
}

// Matches reports whether the line has the given identity.
func (i CartItem) Matches(productID primitive.ObjectID, color, size string) bool {
	return i.Product == productID && i.SelectedColor == color && i.SelectedSize == size
}

type Cart struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User       primitive.ObjectID `json:"user" bson:"user"`
	Items      []CartItem         `json:"items" bson:"items"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Recalculate sets TotalPrice to the sum of price snapshots times quantities.
func (c *Cart) Recalculate() {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.TotalPrice = RoundMoney(total)
}

// QuantityOf sums the quantity of every line for a product, across variants.
func (c *Cart) QuantityOf(productID primitive.ObjectID) int {
	n := 0
	for _, it := range c.Items {
		if it.Product == productID {
			n += it.Quantity
		}
	}
	return n
}
