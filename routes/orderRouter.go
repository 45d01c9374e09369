package routes

import (
	controller "go-food-ordering/controllers"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/orders", controller.GetOrders())
	incomingRoutes.POST("/orders", controller.CreateOrder())
	incomingRoutes.GET("/orders/restaurant", middleware.RequireRole(models.RoleRestaurant), controller.GetRestaurantOrders())
	incomingRoutes.GET("/orders/by-session/:session_id", controller.GetOrderBySession())
	incomingRoutes.GET("/orders/:order_id", controller.GetOrder())
	incomingRoutes.PATCH("/orders/:order_id", controller.UpdateOrderStatus())
}
