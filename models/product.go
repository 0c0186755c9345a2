package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Slug             string             `json:"slug" bson:"slug"`
	SKU              string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Description      string             `json:"description" bson:"description"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	Price            float64            `json:"price" bson:"price"`
	DiscountPrice    *float64           `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Stock            int                `json:"stock" bson:"stock"`
	Images           []string           `json:"images" bson:"images"`
	Category         primitive.ObjectID `json:"category" bson:"category"`
	Tags             []string           `json:"tags" bson:"tags"`
	Colors           []string           `json:"colors" bson:"colors"`
	Sizes            []string           `json:"sizes" bson:"sizes"`
	RatingsAverage   float64            `json:"ratingsAverage" bson:"ratingsAverage"`
	RatingsCount     int                `json:"ratingsCount" bson:"ratingsCount"`
	IsFeatured       bool               `json:"isFeatured" bson:"isFeatured"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	CreatedBy        primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductSummary is what carts, wishlists and reviews show of a product.
type ProductSummary struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	Title  string             `json:"title" bson:"title"`
	Slug   string             `json:"slug" bson:"slug"`
	Price  float64            `json:"price" bson:"price"`
	Images []string           `json:"images" bson:"images"`
	Stock  int                `json:"stock" bson:"stock"`
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Title: p.Title, Slug: p.Slug, Price: p.Price, Images: p.Images, Stock: p.Stock}
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// ProductFilter is the parsed product listing query.
type ProductFilter struct {
	Search     string
	Category   string // id or slug as received
	MinPrice   *float64
	MaxPrice   *float64
	Colors     []string
	Sizes      []string
	Sort       string
	IsFeatured *bool
}
