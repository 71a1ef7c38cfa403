package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovaldezb/aws-microservices/services/ordering/models"
	"github.com/ovaldezb/aws-microservices/services/ordering/repository"
)

type OrderController struct {
	Repo repository.OrderRepo
	Log  *zap.Logger
}

func NewOrderController(repo repository.OrderRepo, log *zap.Logger) *OrderController {
	return &OrderController{Repo: repo, Log: log}
}

// GetAllOrders returns every stored order.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Repo.GetAll(c.Request.Context())
	if err != nil {
		oc.Log.Error("get all orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrdersByUser returns all orders for one user, newest and oldest alike.
func (oc *OrderController) GetOrdersByUser(c *gin.Context) {
	userName := c.Param("userName")

	orders, err := oc.Repo.QueryByUser(c.Request.Context(), userName)
	if err != nil {
		oc.Log.Error("query orders failed", zap.String("user_name", userName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}
