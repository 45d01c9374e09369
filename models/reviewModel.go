package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	OrderID      primitive.ObjectID `bson:"orderId" json:"orderId"`
	CustomerID   primitive.ObjectID `bson:"customerId" json:"customerId"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	Rating       int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment      string             `bson:"comment" json:"comment" validate:"max=500"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// AverageRating is the arithmetic mean of the review ratings rounded to one
// decimal, the value persisted on the restaurant. Zero reviews yield zero.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
