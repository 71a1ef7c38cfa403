package controllers

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	"github.com/ovaldezb/aws-microservices/services/product/cache"
	"github.com/ovaldezb/aws-microservices/services/product/models"
	"github.com/ovaldezb/aws-microservices/services/product/repository"
)

const presignExpiry = 15 * time.Minute

type ProductController struct {
	Repo        repository.ProductRepo
	Cache       *cache.ProductCache
	S3Client    *s3.Client
	ImageBucket string
	Log         *zap.Logger
}

func NewProductController(repo repository.ProductRepo, productCache *cache.ProductCache, s3Client *s3.Client, imageBucket string, log *zap.Logger) *ProductController {
	return &ProductController{
		Repo:        repo,
		Cache:       productCache,
		S3Client:    s3Client,
		ImageBucket: imageBucket,
		Log:         log,
	}
}

// GetProduct returns one product by id, read through the cache.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if product, ok := pc.Cache.Get(ctx, id); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	product, err := pc.Repo.Get(ctx, id)
	if err != nil {
		pc.Log.Error("get product failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	pc.Cache.Set(ctx, product)
	c.JSON(http.StatusOK, product)
}

// GetProducts returns all products, optionally filtered by ?category=.
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		products []models.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = pc.Repo.GetByCategory(ctx, category)
	} else {
		products, err = pc.Repo.GetAll(ctx)
	}
	if err != nil {
		pc.Log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, products)
}

// CreateProduct stores a new product under a server-assigned uuid.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	product.ID = uuid.NewString()

	if err := pc.Repo.Create(c.Request.Context(), &product); err != nil {
		pc.Log.Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update; absent fields are untouched.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	if err := pc.Repo.Update(ctx, id, update); err != nil {
		pc.Log.Error("update product failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	pc.Cache.Invalidate(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

// DeleteProduct removes a product.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if err := pc.Repo.Delete(ctx, id); err != nil {
		pc.Log.Error("delete product failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	pc.Cache.Invalidate(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// GetImageUploadURL returns a presigned S3 PUT URL for uploading the
// product's image directly to the bucket.
func (pc *ProductController) GetImageUploadURL(c *gin.Context) {
	id := c.Param("id")
	if pc.S3Client == nil || pc.ImageBucket == "" {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "image uploads not configured"})
		return
	}

	contentType := c.DefaultQuery("contentType", "image/png")
	key := "products/" + id

	url, err := awspkg.GeneratePresignedPutURL(c.Request.Context(), pc.S3Client, pc.ImageBucket, key, contentType, presignExpiry)
	if err != nil {
		pc.Log.Error("presign upload failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": url,
		"method":     "PUT",
		"key":        key,
		"expires_in": int(presignExpiry.Seconds()),
	})
}
