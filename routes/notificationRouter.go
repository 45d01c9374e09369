package routes

import (
	controller "go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

func NotificationRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/notifications/check", controller.CheckNotifications())
}
