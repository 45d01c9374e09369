package routes

import (
	controller "go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/users/signup", controller.SignUp())
	incomingRoutes.POST("/users/login", controller.Login())
	incomingRoutes.POST("/users/google", controller.GoogleLogin())
	incomingRoutes.GET("/ws", controller.HandleWebSocket())
}

func ProtectedUserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/users/me", controller.GetMe())
}
