package controllers

import (
	"context"
	"errors"

	"go-food-ordering/database"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	validator "github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

var errNoSession = errors.New("no authenticated session")

// sessionUserID resolves the acting user from the verified claims set by the
// auth middleware. Client-supplied ids are never trusted for identity.
func sessionUserID(c *gin.Context) (primitive.ObjectID, error) {
	uid := c.GetString("uid")
	if uid == "" {
		return primitive.NilObjectID, errNoSession
	}
	return primitive.ObjectIDFromHex(uid)
}

// findOwnedRestaurant loads the restaurant belonging to the given owner, the
// ownership boundary for every catalog and dashboard mutation.
func findOwnedRestaurant(ctx context.Context, ownerID primitive.ObjectID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := database.OpenCollection(database.Client, "restaurant").
		FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&restaurant)
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}
