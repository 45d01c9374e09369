package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Image        string             `bson:"image" json:"image"`
	Location     Location           `bson:"location" json:"location" validate:"required"`
	Cuisine      string             `bson:"cuisine" json:"cuisine" validate:"required"`
	Rating       float64            `bson:"rating" json:"rating"`
	DeliveryTime string             `bson:"deliveryTime" json:"deliveryTime"`
	IsOpen       bool               `bson:"isOpen" json:"isOpen"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Location struct {
	Address string  `bson:"address" json:"address" validate:"required"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
}

const (
	DefaultRestaurantImage = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800"
	DefaultDeliveryTime    = "30-45 min"
	DefaultRating          = 4.5
)
