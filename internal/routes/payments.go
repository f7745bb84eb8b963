package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

func RegisterPaymentRoutes(r gin.IRouter) {
	r.GET("/packs", handlers.ListCreditPacks)

	// Gateway webhook authenticates by signature, not session.
	r.POST("/webhook", handlers.RazorpayWebhook)

	auth := middleware.AuthMiddleware(handlers.Store.Users)
	r.POST("/order", auth, middleware.PaymentRateLimit(), handlers.CreateOrder)
	r.POST("/verify", auth, middleware.PaymentRateLimit(), handlers.VerifyPayment)
}
