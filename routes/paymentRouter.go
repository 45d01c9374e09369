package routes

import (
	controller "go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

// The webhook route is public: Stripe authenticates itself with the signature
// header, not a session token.
func PaymentRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/stripe/webhook", controller.StripeWebhook())
}

func ProtectedPaymentRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/stripe/create-checkout-session", controller.CreateCheckoutSession())
}
