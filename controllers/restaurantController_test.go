package controllers

import (
	"testing"

	"go-food-ordering/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func restaurantAt(name string, lat, lng float64) models.Restaurant {
	return models.Restaurant{
		Name:     name,
		Location: models.Location{Lat: lat, Lng: lng},
	}
}

func TestSortByDistance_NearestFirst(t *testing.T) {
	// Caller in Anaco; Puerto La Cruz and Caracas are progressively farther.
	restaurants := []models.Restaurant{
		restaurantAt("Caracas", 10.4806, -66.9036),
		restaurantAt("Anaco", 10.2541, -64.4728),
		restaurantAt("Puerto La Cruz", 10.2167, -64.6167),
	}

	sorted := sortByDistance(restaurants, 10.2541, -64.4728)

	require.Len(t, sorted, 3)
	assert.Equal(t, "Anaco", sorted[0].Name)
	assert.Equal(t, "Puerto La Cruz", sorted[1].Name)
	assert.Equal(t, "Caracas", sorted[2].Name)
}

func TestSortByDistance_AnnotatesTwoDecimals(t *testing.T) {
	restaurants := []models.Restaurant{restaurantAt("Here", 10.2541, -64.4728)}

	sorted := sortByDistance(restaurants, 10.2541, -64.4728)

	require.Len(t, sorted, 1)
	assert.Equal(t, "0.00", sorted[0].Distance)
}

func TestSortByDistance_Empty(t *testing.T) {
	assert.Empty(t, sortByDistance(nil, 10, -64))
}

func updateKeys(obj primitive.D) []string {
	keys := make([]string, 0, len(obj))
	for _, e := range obj {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestRestaurantUpdateObj_OmittedIsOpenNotTouched(t *testing.T) {
	// A partial update that only renames must not flip isOpen to false.
	name := "New name"
	obj := restaurantUpdateObj(restaurantUpdateInput{Name: &name})

	assert.Equal(t, []string{"name"}, updateKeys(obj))
}

func TestRestaurantUpdateObj_ExplicitIsOpen(t *testing.T) {
	closed := false
	obj := restaurantUpdateObj(restaurantUpdateInput{IsOpen: &closed})

	require.Equal(t, []string{"isOpen"}, updateKeys(obj))
	assert.Equal(t, false, obj[0].Value)

	open := true
	obj = restaurantUpdateObj(restaurantUpdateInput{IsOpen: &open})
	require.Equal(t, []string{"isOpen"}, updateKeys(obj))
	assert.Equal(t, true, obj[0].Value)
}

func TestRestaurantUpdateObj_AllFields(t *testing.T) {
	name, desc, image := "A", "B", "C"
	cuisine, delivery := "D", "20-30 min"
	loc := models.Location{Address: "Av. Principal", Lat: 10.2, Lng: -64.4}
	open := true
	obj := restaurantUpdateObj(restaurantUpdateInput{
		Name:         &name,
		Description:  &desc,
		Image:        &image,
		Cuisine:      &cuisine,
		DeliveryTime: &delivery,
		Location:     &loc,
		IsOpen:       &open,
	})

	assert.Equal(t, []string{
		"name", "description", "image", "cuisine", "deliveryTime", "location", "isOpen",
	}, updateKeys(obj))
}

func TestRestaurantUpdateObj_EmptyInput(t *testing.T) {
	assert.Empty(t, restaurantUpdateObj(restaurantUpdateInput{}))
}
