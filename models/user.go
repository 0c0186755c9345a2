package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Street    string `json:"street" bson:"street"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	Zip       string `json:"zip" bson:"zip"`
	Country   string `json:"country" bson:"country"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	Type      string `json:"type,omitempty" bson:"type,omitempty"` // home, work...
	IsDefault bool   `json:"isDefault" bson:"isDefault"`
}

// User is a registered account. Secret material never leaves the store.
type User struct {
	ID                   primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Role                 string             `json:"role" bson:"role"`
	IsBlocked            bool               `json:"isBlocked" bson:"isBlocked"`
	Phone                string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Addresses            []Address          `json:"addresses" bson:"addresses"`
	ResetPasswordToken   string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `json:"-" bson:"resetPasswordExpires,omitempty"`
	RefreshToken         string             `json:"-" bson:"refreshToken,omitempty"`
	RefreshTokenExpires  *time.Time         `json:"-" bson:"refreshTokenExpires,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// DefaultAddress returns the address flagged as default, else the first saved one.
func (u *User) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	if len(u.Addresses) > 0 {
		return &u.Addresses[0]
	}
	return nil
}

// UserSummary is the public projection embedded in other resources.
type UserSummary struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email,omitempty" bson:"email"`
}
