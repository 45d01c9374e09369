package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
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

var restaurantCollection *mongo.Collection = database.OpenCollection(database.Client, "restaurant")

const (
	restaurantListCacheKey = "restaurants:all"
	restaurantListCacheTTL = 30 * time.Second
)

// restaurantWithDistance annotates a listing entry with the great-circle
// distance to the caller, formatted to two decimals as the clients expect.
type restaurantWithDistance struct {
	models.Restaurant
	Distance string  `json:"distance"`
	km       float64 `json:"-"`
}

func GetRestaurants() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.Query("all") == "true" {
			var cached []models.Restaurant
			if database.CacheGet(ctx, restaurantListCacheKey, &cached) {
				c.JSON(http.StatusOK, cached)
				return
			}

			restaurants, err := findOpenRestaurants(ctx, 50)
			if err != nil {
				logrus.WithError(err).Error("restaurant listing failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing restaurants"})
				return
			}
			database.CacheSet(ctx, restaurantListCacheKey, restaurants, restaurantListCacheTTL)
			c.JSON(http.StatusOK, restaurants)
			return
		}

		restaurants, err := findOpenRestaurants(ctx, 20)
		if err != nil {
			logrus.WithError(err).Error("restaurant listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing restaurants"})
			return
		}

		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr == nil && lngErr == nil {
			c.JSON(http.StatusOK, sortByDistance(restaurants, lat, lng))
			return
		}
		c.JSON(http.StatusOK, restaurants)
	}
}

func findOpenRestaurants(ctx context.Context, limit int64) ([]models.Restaurant, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(limit)
	cursor, err := restaurantCollection.Find(ctx, bson.M{"isOpen": true}, opts)
	if err != nil {
		return nil, err
	}
	restaurants := []models.Restaurant{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func sortByDistance(restaurants []models.Restaurant, lat, lng float64) []restaurantWithDistance {
	annotated := make([]restaurantWithDistance, 0, len(restaurants))
	for _, r := range restaurants {
		d := helpers.Distance(lat, lng, r.Location.Lat, r.Location.Lng)
		annotated = append(annotated, restaurantWithDistance{
			Restaurant: r,
			Distance:   fmt.Sprintf("%.2f", d),
			km:         d,
		})
	}
	sort.SliceStable(annotated, func(i, j int) bool {
		return annotated[i].km < annotated[j].km
	})
	return annotated
}

func GetRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		id, err := primitive.ObjectIDFromHex(c.Param("restaurant_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}
		var restaurant models.Restaurant
		if err := restaurantCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

func CreateRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ownerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var restaurant models.Restaurant
		if err := c.BindJSON(&restaurant); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&restaurant); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		count, err := restaurantCollection.CountDocuments(ctx, bson.M{"ownerId": ownerID})
		if err != nil {
			logrus.WithError(err).Error("owner lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking ownership"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you already have a restaurant"})
			return
		}

		restaurant.ID = primitive.NewObjectID()
		restaurant.OwnerID = ownerID
		if restaurant.Image == "" {
			restaurant.Image = models.DefaultRestaurantImage
		}
		if restaurant.DeliveryTime == "" {
			restaurant.DeliveryTime = models.DefaultDeliveryTime
		}
		if restaurant.Rating == 0 {
			restaurant.Rating = models.DefaultRating
		}
		restaurant.IsOpen = true
		restaurant.CreatedAt = time.Now()
		restaurant.UpdatedAt = restaurant.CreatedAt

		if _, err := restaurantCollection.InsertOne(ctx, restaurant); err != nil {
			logrus.WithError(err).Error("restaurant insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "restaurant was not created"})
			return
		}
		database.CacheDel(ctx, restaurantListCacheKey)
		c.JSON(http.StatusCreated, restaurant)
	}
}

// restaurantUpdateInput uses pointer fields so an omitted isOpen is
// distinguishable from an explicit false.
type restaurantUpdateInput struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Image        *string          `json:"image"`
	Cuisine      *string          `json:"cuisine"`
	DeliveryTime *string          `json:"deliveryTime"`
	Location     *models.Location `json:"location"`
	IsOpen       *bool            `json:"isOpen"`
}

func restaurantUpdateObj(input restaurantUpdateInput) primitive.D {
	var updateObj primitive.D
	if input.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: *input.Name})
	}
	if input.Description != nil {
		updateObj = append(updateObj, bson.E{Key: "description", Value: *input.Description})
	}
	if input.Image != nil {
		updateObj = append(updateObj, bson.E{Key: "image", Value: *input.Image})
	}
	if input.Cuisine != nil {
		updateObj = append(updateObj, bson.E{Key: "cuisine", Value: *input.Cuisine})
	}
	if input.DeliveryTime != nil {
		updateObj = append(updateObj, bson.E{Key: "deliveryTime", Value: *input.DeliveryTime})
	}
	if input.Location != nil {
		updateObj = append(updateObj, bson.E{Key: "location", Value: *input.Location})
	}
	if input.IsOpen != nil {
		updateObj = append(updateObj, bson.E{Key: "isOpen", Value: *input.IsOpen})
	}
	return updateObj
}

func UpdateRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		restaurant, status, err := resolveOwnedRestaurantByID(ctx, c)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		var input restaurantUpdateInput
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updateObj := restaurantUpdateObj(input)
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

		_, err = restaurantCollection.UpdateOne(
			ctx,
			bson.M{"_id": restaurant.ID},
			bson.D{{Key: "$set", Value: updateObj}},
		)
		if err != nil {
			logrus.WithError(err).Error("restaurant update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "restaurant update failed"})
			return
		}
		database.CacheDel(ctx, restaurantListCacheKey)

		var updated models.Restaurant
		if err := restaurantCollection.FindOne(ctx, bson.M{"_id": restaurant.ID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "restaurant update failed"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		restaurant, status, err := resolveOwnedRestaurantByID(ctx, c)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if _, err := restaurantCollection.DeleteOne(ctx, bson.M{"_id": restaurant.ID}); err != nil {
			logrus.WithError(err).Error("restaurant delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "restaurant delete failed"})
			return
		}
		database.CacheDel(ctx, restaurantListCacheKey)
		c.JSON(http.StatusOK, gin.H{"message": "restaurant deleted"})
	}
}

func GetMyRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ownerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		restaurant, err := findOwnedRestaurant(ctx, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

// resolveOwnedRestaurantByID loads the restaurant in the path and verifies the
// session user owns it.
func resolveOwnedRestaurantByID(ctx context.Context, c *gin.Context) (*models.Restaurant, int, error) {
	uid, err := sessionUserID(c)
	if err != nil {
		return nil, http.StatusUnauthorized, errNoSession
	}
	id, err := primitive.ObjectIDFromHex(c.Param("restaurant_id"))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid restaurant id")
	}
	var restaurant models.Restaurant
	if err := restaurantCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("restaurant not found")
	}
	if restaurant.OwnerID != uid {
		return nil, http.StatusForbidden, fmt.Errorf("you do not own this restaurant")
	}
	return &restaurant, http.StatusOK, nil
}
