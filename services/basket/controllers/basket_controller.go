package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovaldezb/aws-microservices/pkg/errs"
	"github.com/ovaldezb/aws-microservices/services/basket/models"
	"github.com/ovaldezb/aws-microservices/services/basket/repository"
	"github.com/ovaldezb/aws-microservices/services/basket/services"
)

type BasketController struct {
	Repo     repository.BasketRepo
	Checkout *services.CheckoutService
	Log      *zap.Logger
}

func NewBasketController(repo repository.BasketRepo, checkout *services.CheckoutService, log *zap.Logger) *BasketController {
	return &BasketController{
		Repo:     repo,
		Checkout: checkout,
		Log:      log,
	}
}

// GetBasket returns one user's basket, or an empty basket if none exists.
func (bc *BasketController) GetBasket(c *gin.Context) {
	userName := c.Param("userName")

	basket, err := bc.Repo.Get(c.Request.Context(), userName)
	if err != nil {
		bc.Log.Error("get basket failed", zap.String("user_name", userName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get basket"})
		return
	}
	if basket == nil {
		basket = &models.Basket{UserName: userName, Items: []models.BasketItem{}}
	}

	c.JSON(http.StatusOK, basket)
}

// GetAllBaskets returns every stored basket.
func (bc *BasketController) GetAllBaskets(c *gin.Context) {
	baskets, err := bc.Repo.GetAll(c.Request.Context())
	if err != nil {
		bc.Log.Error("get all baskets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list baskets"})
		return
	}
	if baskets == nil {
		baskets = []models.Basket{}
	}

	c.JSON(http.StatusOK, baskets)
}

// CreateBasket stores the posted basket, overwriting any existing basket for
// the same user.
func (bc *BasketController) CreateBasket(c *gin.Context) {
	var basket models.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if basket.UserName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userName is required"})
		return
	}

	if err := bc.Repo.Save(c.Request.Context(), &basket); err != nil {
		bc.Log.Error("save basket failed", zap.String("user_name", basket.UserName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save basket"})
		return
	}

	c.JSON(http.StatusOK, basket)
}

// DeleteBasket removes a user's basket.
func (bc *BasketController) DeleteBasket(c *gin.Context) {
	userName := c.Param("userName")

	if err := bc.Repo.Delete(c.Request.Context(), userName); err != nil {
		bc.Log.Error("delete basket failed", zap.String("user_name", userName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete basket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "basket deleted"})
}

// CheckoutBasket converts the user's basket into an order event. Success
// means the order is accepted and in flight, not that it has been persisted.
func (bc *BasketController) CheckoutBasket(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := bc.Checkout.Checkout(c.Request.Context(), req); err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		bc.Log.Error("checkout failed", zap.String("user_name", req.UserName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "checkout accepted"})
}
