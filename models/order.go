package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "Card"

	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"

	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// IsTerminalStatus reports whether no further transition is allowed out of status.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

type OrderItem struct {
	Product       primitive.ObjectID `json:"product" bson:"product"`
	Title         string             `json:"title" bson:"title"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Price         float64            `json:"price" bson:"price"`
	SelectedColor string             `json:"selectedColor,omitempty" bson:"selectedColor,omitempty"`
	SelectedSize  string             `json:"selectedSize,omitempty" bson:"selectedSize,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street" bson:"street" binding:"required"`
	City    string `json:"city" bson:"city" binding:"required"`
	State   string `json:"state" bson:"state"`
	Zip     string `json:"zip" bson:"zip" binding:"required"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	Phone   string `json:"phone" bson:"phone"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Items           []OrderItem        `json:"items" bson:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	OrderStatus     string             `json:"orderStatus" bson:"orderStatus"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	ShippingPrice   float64            `json:"shippingPrice" bson:"shippingPrice"`
	OrderNumber     string             `json:"orderNumber" bson:"orderNumber"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OrderStatusChange is a conditional status transition: it only applies while the order
// still has status From.
type OrderStatusChange struct {
	From          string
	To            string
	PaymentStatus string // optional
}
