package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ovaldezb/aws-microservices/pkg/middleware"
	"github.com/ovaldezb/aws-microservices/services/basket/controllers"
)

// RegisterBasketRoutes wires the basket surface. Each operation is an
// explicit registration, so the set of supported verb+path combinations is
// closed and checked at compile time.
func RegisterBasketRoutes(r *gin.Engine, controller *controllers.BasketController) {
	basket := r.Group("/basket")
	{
		basket.GET("", controller.GetAllBaskets)
		basket.GET("/:userName", controller.GetBasket)
		basket.POST("", controller.CreateBasket)
		basket.DELETE("/:userName", controller.DeleteBasket)
		basket.POST("/checkout", middleware.RateLimit(rate.Limit(10), 20), controller.CheckoutBasket)
	}
}
