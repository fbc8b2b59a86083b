package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

// home serves the landing payload: departments plus featured and latest
// available products.
func (s *Server) home(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := s.stores.Categories.All(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	featured, err := s.stores.Products.Featured(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	latest, err := s.stores.Products.Latest(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":        categories,
		"featured_products": featured,
		"latest_products":   latest,
	})
}

func (s *Server) listProducts(c *gin.Context) {
	filters := repository.ProductFilters{
		CategorySlug: c.Query("category"),
		Query:        c.Query("q"),
		Sort:         c.Query("sort"),
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	products, total, err := s.stores.Products.ListAvailable(c.Request.Context(), filters, page)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	pages := total / repository.PageSize
	if total%repository.PageSize != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      page,
		"pages":     pages,
		"page_size": repository.PageSize,
	})
}

func (s *Server) productDetail(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	var product *models.Product
	if s.stores.Cache != nil {
		cached, err := s.stores.Cache.GetProductCache(ctx, slug)
		if err != nil {
			s.logger.Warn("Product cache lookup failed", zap.String("slug", slug), zap.Error(err))
		} else {
			product = cached
		}
	}

	if product == nil {
		var err error
		product, err = s.stores.Products.AvailableBySlug(ctx, slug)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if s.stores.Cache != nil {
			if err := s.stores.Cache.CacheProduct(ctx, product, s.config.Cache.ProductTTL); err != nil {
				s.logger.Warn("Failed to cache product", zap.String("slug", slug), zap.Error(err))
			}
		}
	}

	related, err := s.stores.Products.Related(ctx, product)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":             product,
		"related_products":    related,
		"discount_percentage": product.DiscountPercentage(),
	})
}
