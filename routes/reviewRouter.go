package routes

import (
	controller "go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

func ReviewRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/reviews", controller.GetReviews())
}

func ProtectedReviewRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/reviews", controller.CreateReview())
}
