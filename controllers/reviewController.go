package controllers

import (
	"context"
	"net/http"
	"time"

	"go-food-ordering/database"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var reviewCollection *mongo.Collection = database.OpenCollection(database.Client, "review")

type createReviewRequest struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview records a one-time rating on a delivered order and recomputes
// the restaurant's average rating.
func CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		customerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var req createReviewRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}
		if len(req.Comment) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "comment must be at most 500 characters"})
			return
		}
		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.CustomerID != customerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only review your own orders"})
			return
		}
		if order.Status != models.StatusDelivered {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only delivered orders can be reviewed"})
			return
		}
		count, err := reviewCollection.CountDocuments(ctx, bson.M{"orderId": orderID})
		if err != nil {
			logrus.WithError(err).Error("review lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking reviews"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "this order has already been reviewed"})
			return
		}

		review := models.Review{
			ID:           primitive.NewObjectID(),
			OrderID:      orderID,
			CustomerID:   customerID,
			RestaurantID: order.RestaurantID,
			Rating:       req.Rating,
			Comment:      req.Comment,
			CreatedAt:    time.Now(),
		}
		if _, err := reviewCollection.InsertOne(ctx, review); err != nil {
			logrus.WithError(err).Error("review insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review was not created"})
			return
		}

		// Stamp the order so the client can show it as rated.
		_, err = orderCollection.UpdateOne(
			ctx,
			bson.M{"_id": orderID},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "rating", Value: req.Rating},
				{Key: "review", Value: req.Comment},
				{Key: "ratedAt", Value: review.CreatedAt},
			}}},
		)
		if err != nil {
			logrus.WithError(err).Error("order stamp failed")
		}

		if err := recomputeRestaurantRating(ctx, order.RestaurantID); err != nil {
			logrus.WithError(err).Error("rating recompute failed")
		}

		c.JSON(http.StatusCreated, review)
	}
}

func recomputeRestaurantRating(ctx context.Context, restaurantID primitive.ObjectID) error {
	cursor, err := reviewCollection.Find(ctx, bson.M{"restaurantId": restaurantID})
	if err != nil {
		return err
	}
	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return err
	}
	_, err = restaurantCollection.UpdateOne(
		ctx,
		bson.M{"_id": restaurantID},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: models.AverageRating(reviews)},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
	if err != nil {
		return err
	}
	database.CacheDel(ctx, restaurantListCacheKey)
	return nil
}

// GetReviews lists a restaurant's latest reviews.
func GetReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		restaurantID, err := primitive.ObjectIDFromHex(c.Query("restaurantId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantId is required"})
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(50)
		cursor, err := reviewCollection.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
		if err != nil {
			logrus.WithError(err).Error("review listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		reviews := []models.Review{}
		if err := cursor.All(ctx, &reviews); err != nil {
			logrus.WithError(err).Error("review decode failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
