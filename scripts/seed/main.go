package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"go-food-ordering/models"
)

// Seeds a handful of restaurants with owners and menus so the app has
// something to browse on a fresh database. Safe to re-run: it drops the
// seeded collections first.
func main() {
	_ = godotenv.Load(".env")

	mongoURL := os.Getenv("MONGODB_URL")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		logrus.Fatalf("mongo connect failed: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("food-ordering")
	for _, name := range []string{"user", "restaurant", "menu_item"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			logrus.Fatalf("drop %s failed: %v", name, err)
		}
	}

	type seedMenuItem struct {
		name, description, category string
		price                       float64
	}
	seeds := []struct {
		name, description, cuisine, address string
		lat, lng                            float64
		rating                              float64
		menu                                []seedMenuItem
	}{
		{
			name: "Pizzeria Napolitana", description: "Wood-fired pizzas straight from the oven",
			cuisine: "Italian", address: "12 Main Ave", lat: 10.2541, lng: -64.4728, rating: 4.5,
			menu: []seedMenuItem{
				{"Margherita", "Tomato, mozzarella and basil", "Pizza", 9.99},
				{"Quattro Formaggi", "Four-cheese pizza", "Pizza", 12.50},
				{"Tiramisu", "Classic mascarpone dessert", "Dessert", 5.25},
			},
		},
		{
			name: "La Trattoria", description: "Homestyle Italian cooking",
			cuisine: "Italian", address: "48 Bolivar St", lat: 10.2587, lng: -64.4651, rating: 4.7,
			menu: []seedMenuItem{
				{"Lasagna", "Layered pasta with beef ragu", "Pasta", 11.75},
				{"Carbonara", "Spaghetti with egg and pancetta", "Pasta", 10.90},
			},
		},
		{
			name: "Sushi Kyo", description: "Fresh rolls and nigiri",
			cuisine: "Japanese", address: "3 Harbor Rd", lat: 10.2490, lng: -64.4803, rating: 4.8,
			menu: []seedMenuItem{
				{"Salmon Roll", "Eight pieces, fresh salmon", "Sushi", 8.40},
				{"Tuna Nigiri", "Two pieces", "Sushi", 4.60},
				{"Miso Soup", "Tofu and wakame", "Soup", 3.10},
			},
		},
	}

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("bcrypt failed: %v", err)
	}

	now := time.Now()
	for i, seed := range seeds {
		ownerEmail := fmt.Sprintf("owner%d@example.com", i+1)
		ownerName := seed.name + " Owner"
		hash := string(password)
		owner := models.User{
			ID:        primitive.NewObjectID(),
			Name:      &ownerName,
			Email:     &ownerEmail,
			Password:  &hash,
			Role:      models.RoleRestaurant,
			Provider:  models.ProviderCredentials,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.Collection("user").InsertOne(ctx, owner); err != nil {
			logrus.Fatalf("user insert failed: %v", err)
		}

		restaurant := models.Restaurant{
			ID:          primitive.NewObjectID(),
			OwnerID:     owner.ID,
			Name:        seed.name,
			Description: seed.description,
			Image:       models.DefaultRestaurantImage,
			Location: models.Location{
				Address: seed.address,
				Lat:     seed.lat,
				Lng:     seed.lng,
			},
			Cuisine:      seed.cuisine,
			Rating:       seed.rating,
			DeliveryTime: models.DefaultDeliveryTime,
			IsOpen:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := db.Collection("restaurant").InsertOne(ctx, restaurant); err != nil {
			logrus.Fatalf("restaurant insert failed: %v", err)
		}

		items := make([]interface{}, 0, len(seed.menu))
		for _, m := range seed.menu {
			items = append(items, models.MenuItem{
				ID:           primitive.NewObjectID(),
				RestaurantID: restaurant.ID,
				Name:         m.name,
				Description:  m.description,
				Price:        m.price,
				Image:        models.DefaultMenuItemImage,
				Images:       []string{},
				Category:     m.category,
				Available:    true,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if _, err := db.Collection("menu_item").InsertMany(ctx, items); err != nil {
			logrus.Fatalf("menu insert failed: %v", err)
		}
		logrus.Infof("seeded %d/%d: %s", i+1, len(seeds), seed.name)
	}

	count, _ := db.Collection("restaurant").CountDocuments(ctx, bson.M{})
	logrus.Infof("done, %d restaurants", count)
}
