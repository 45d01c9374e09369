package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-food-ordering/database"
	"go-food-ordering/helpers"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var menuCollection *mongo.Collection = database.OpenCollection(database.Client, "menu_item")

// GetMenu lists a restaurant's menu. Anonymous callers and other users see
// available items only; the owning user also sees unavailable ones. The route
// is public, so the owner is recognized from an optional token header.
func GetMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		restaurantID, err := primitive.ObjectIDFromHex(c.Query("restaurantId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantId is required"})
			return
		}

		filter := bson.M{"restaurantId": restaurantID, "available": true}
		if viewerOwnsRestaurant(ctx, c.Request.Header.Get("token"), restaurantID) {
			delete(filter, "available")
		}

		opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
		cursor, err := menuCollection.Find(ctx, filter, opts)
		if err != nil {
			logrus.WithError(err).Error("menu listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing the menu"})
			return
		}
		items := []models.MenuItem{}
		if err := cursor.All(ctx, &items); err != nil {
			logrus.WithError(err).Error("menu decode failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing the menu"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func viewerOwnsRestaurant(ctx context.Context, token string, restaurantID primitive.ObjectID) bool {
	if token == "" {
		return false
	}
	claims, err := helpers.ValidateToken(token)
	if err != nil {
		return false
	}
	uid, err := primitive.ObjectIDFromHex(claims.Uid)
	if err != nil {
		return false
	}
	var restaurant models.Restaurant
	if err := restaurantCollection.FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		return false
	}
	return restaurant.OwnerID == uid
}

func GetMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		id, err := primitive.ObjectIDFromHex(c.Param("menu_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
			return
		}
		var item models.MenuItem
		if err := menuCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func CreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		uid, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var item models.MenuItem
		if err := c.BindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The target restaurant must exist and belong to the caller.
		var restaurant models.Restaurant
		if err := restaurantCollection.FindOne(ctx, bson.M{"_id": item.RestaurantID}).Decode(&restaurant); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		if restaurant.OwnerID != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this restaurant"})
			return
		}

		item.ID = primitive.NewObjectID()
		if item.Image == "" {
			item.Image = models.DefaultMenuItemImage
		}
		if item.Images == nil {
			item.Images = []string{}
		}
		item.Available = true
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt

		if _, err := menuCollection.InsertOne(ctx, item); err != nil {
			logrus.WithError(err).Error("menu item insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item was not created"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		item, status, err := resolveOwnedMenuItem(ctx, c)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		var input struct {
			Name        *string   `json:"name"`
			Description *string   `json:"description"`
			Price       *float64  `json:"price"`
			Image       *string   `json:"image"`
			Images      *[]string `json:"images"`
			Category    *string   `json:"category"`
			Available   *bool     `json:"available"`
		}
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var updateObj primitive.D
		if input.Name != nil {
			updateObj = append(updateObj, bson.E{Key: "name", Value: *input.Name})
		}
		if input.Description != nil {
			updateObj = append(updateObj, bson.E{Key: "description", Value: *input.Description})
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
				return
			}
			updateObj = append(updateObj, bson.E{Key: "price", Value: *input.Price})
		}
		if input.Image != nil {
			updateObj = append(updateObj, bson.E{Key: "image", Value: *input.Image})
		}
		if input.Images != nil {
			updateObj = append(updateObj, bson.E{Key: "images", Value: *input.Images})
		}
		if input.Category != nil {
			updateObj = append(updateObj, bson.E{Key: "category", Value: *input.Category})
		}
		if input.Available != nil {
			updateObj = append(updateObj, bson.E{Key: "available", Value: *input.Available})
		}
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

		_, err = menuCollection.UpdateOne(
			ctx,
			bson.M{"_id": item.ID},
			bson.D{{Key: "$set", Value: updateObj}},
		)
		if err != nil {
			logrus.WithError(err).Error("menu item update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item update failed"})
			return
		}

		var updated models.MenuItem
		if err := menuCollection.FindOne(ctx, bson.M{"_id": item.ID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item update failed"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		item, status, err := resolveOwnedMenuItem(ctx, c)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if _, err := menuCollection.DeleteOne(ctx, bson.M{"_id": item.ID}); err != nil {
			logrus.WithError(err).Error("menu item delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menu item delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "menu item deleted"})
	}
}

// resolveOwnedMenuItem resolves MenuItem -> Restaurant and verifies the
// session user owns the restaurant.
func resolveOwnedMenuItem(ctx context.Context, c *gin.Context) (*models.MenuItem, int, error) {
	uid, err := sessionUserID(c)
	if err != nil {
		return nil, http.StatusUnauthorized, errNoSession
	}
	id, err := primitive.ObjectIDFromHex(c.Param("menu_id"))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid menu item id")
	}
	var item models.MenuItem
	if err := menuCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("menu item not found")
	}
	var restaurant models.Restaurant
	if err := restaurantCollection.FindOne(ctx, bson.M{"_id": item.RestaurantID}).Decode(&restaurant); err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("restaurant not found")
	}
	if restaurant.OwnerID != uid {
		return nil, http.StatusForbidden, fmt.Errorf("you do not own this menu item")
	}
	return &item, http.StatusOK, nil
}
