package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"

	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Email    *string            `bson:"email" json:"email" validate:"required,email"`
	Password *string            `bson:"password,omitempty" json:"-" validate:"required,min=6"`
	Role     string             `bson:"role" json:"role"`
	Provider string             `bson:"provider" json:"provider"`
	GoogleID *string            `bson:"googleId,omitempty" json:"googleId,omitempty"`
	Phone    *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  *Address           `bson:"address,omitempty" json:"address,omitempty"`

	Token        *string   `bson:"token,omitempty" json:"token,omitempty"`
	RefreshToken *string   `bson:"refreshToken,omitempty" json:"refreshToken,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Address doubles as a user's saved address and an order's delivery address.
type Address struct {
	Street string  `bson:"street" json:"street"`
	Lat    float64 `bson:"lat" json:"lat"`
	Lng    float64 `bson:"lng" json:"lng"`
}

func IsValidRole(role string) bool {
	return role == RoleCustomer || role == RoleRestaurant
}
