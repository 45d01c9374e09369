package main

import (
	"net/http"
	"os"
	"time"

	"go-food-ordering/middleware"
	"go-food-ordering/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Warn("no .env file found, relying on environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_URL")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	})

	// Public surface: sign-in, browsing, the Stripe webhook (it carries its
	// own signature) and the websocket endpoint (it validates its own token).
	routes.UserRoutes(router)
	routes.RestaurantRoutes(router)
	routes.MenuRoutes(router)
	routes.ReviewRoutes(router)
	routes.PaymentRoutes(router)

	router.Use(middleware.Authentication())
	routes.ProtectedUserRoutes(router)
	routes.ProtectedRestaurantRoutes(router)
	routes.ProtectedMenuRoutes(router)
	routes.OrderRoutes(router)
	routes.ProtectedReviewRoutes(router)
	routes.NotificationRoutes(router)
	routes.ProtectedPaymentRoutes(router)

	logrus.Infof("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
