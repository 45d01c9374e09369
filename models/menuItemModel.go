package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultMenuItemImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800"

type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Price        float64            `bson:"price" json:"price" validate:"required,gt=0"`
	// Image is the legacy single-image field kept for existing documents;
	// Images carries any additional photos.
	Image     string    `bson:"image" json:"image"`
	Images    []string  `bson:"images" json:"images"`
	Category  string    `bson:"category" json:"category" validate:"required"`
	Available bool      `bson:"available" json:"available"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AllImages merges the legacy single image with the gallery, falling back to
// the stock photo when the item has none.
func (m *MenuItem) AllImages() []string {
	var imgs []string
	if m.Image != "" && m.Image != DefaultMenuItemImage {
		imgs = append(imgs, m.Image)
	}
	imgs = append(imgs, m.Images...)
	if len(imgs) == 0 {
		imgs = []string{DefaultMenuItemImage}
	}
	return imgs
}
