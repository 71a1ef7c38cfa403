package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ovaldezb/aws-microservices/services/product/controllers"
)

func RegisterProductRoutes(r *gin.Engine, controller *controllers.ProductController) {
	product := r.Group("/product")
	{
		product.GET("", controller.GetProducts)
		product.GET("/:id", controller.GetProduct)
		product.POST("", controller.CreateProduct)
		product.PUT("/:id", controller.UpdateProduct)
		product.DELETE("/:id", controller.DeleteProduct)
		product.GET("/:id/image-upload", controller.GetImageUploadURL)
	}
}
