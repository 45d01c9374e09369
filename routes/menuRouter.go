package routes

import (
	controller "go-food-ordering/controllers"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
)

func MenuRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/menu", controller.GetMenu())
	incomingRoutes.GET("/menu/:menu_id", controller.GetMenuItem())
}

func ProtectedMenuRoutes(incomingRoutes *gin.Engine) {
	owner := middleware.RequireRole(models.RoleRestaurant)
	incomingRoutes.POST("/menu", owner, controller.CreateMenuItem())
	incomingRoutes.PUT("/menu/:menu_id", owner, controller.UpdateMenuItem())
	incomingRoutes.DELETE("/menu/:menu_id", owner, controller.DeleteMenuItem())
}
