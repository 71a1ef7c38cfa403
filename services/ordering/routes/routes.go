package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ovaldezb/aws-microservices/services/ordering/controllers"
)

func RegisterOrderRoutes(r *gin.Engine, controller *controllers.OrderController) {
	order := r.Group("/order")
	{
		order.GET("", controller.GetAllOrders)
		order.GET("/:userName", controller.GetOrdersByUser)
	}
}
