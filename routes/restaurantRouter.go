package routes

import (
	controller "go-food-ordering/controllers"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
)

func RestaurantRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/restaurants", controller.GetRestaurants())
	incomingRoutes.GET("/restaurants/:restaurant_id", controller.GetRestaurant())
}

func ProtectedRestaurantRoutes(incomingRoutes *gin.Engine) {
	owner := middleware.RequireRole(models.RoleRestaurant)
	incomingRoutes.GET("/restaurants/my-restaurant", owner, controller.GetMyRestaurant())
	incomingRoutes.POST("/restaurants", owner, controller.CreateRestaurant())
	incomingRoutes.PUT("/restaurants/:restaurant_id", owner, controller.UpdateRestaurant())
	incomingRoutes.DELETE("/restaurants/:restaurant_id", owner, controller.DeleteRestaurant())
}
