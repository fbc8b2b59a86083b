package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
)

func (s *Server) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := s.stores.Orders.Stats(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	recentOrders, err := s.stores.Orders.Recent(ctx, 10)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	products, err := s.stores.Products.ListAll(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	if len(products) > 20 {
		products = products[:20]
	}
	categories, err := s.stores.Categories.All(ctx)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":         stats,
		"recent_orders": recentOrders,
		"products":      products,
		"categories":    categories,
	})
}

func (s *Server) adminOrderList(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	orders, err := s.stores.Orders.List(c.Request.Context(), status)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":        orders,
		"status_filter": status,
	})
}

func (s *Server) adminOrderDetail(c *gin.Context) {
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := s.stores.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type orderStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (s *Server) adminOrderStatus(c *gin.Context) {
	staff := currentUser(c)
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(next) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	order, err := s.stores.Orders.UpdateStatus(c.Request.Context(), orderID, staff.ID, next, req.Description, req.Location)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	s.auditLog("update_order_status", order.OrderNumber, staff.ID, map[string]interface{}{
		"order_id": order.ID,
		"status":   string(next),
		"location": req.Location,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

func (s *Server) adminProductList(c *gin.Context) {
	products, err := s.stores.Products.ListAll(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type productRequest struct {
	CategoryID  uint   `json:"category_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	OldPrice    string `json:"old_price"`
	Stock       int    `json:"stock"`
	Available   *bool  `json:"available"`
	Image       string `json:"image"`
	Image2      string `json:"image2"`
	Image3      string `json:"image3"`
}

func (r *productRequest) toModel() (*models.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return nil, errInvalidPrice
	}

	product := &models.Product{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		Available:   true,
		Image:       r.Image,
		Image2:      r.Image2,
		Image3:      r.Image3,
	}
	if r.Available != nil {
		product.Available = *r.Available
	}
	if r.OldPrice != "" {
		oldPrice, err := decimal.NewFromString(r.OldPrice)
		if err != nil || oldPrice.IsNegative() {
			return nil, errInvalidPrice
		}
		product.OldPrice = &oldPrice
	}
	if product.Stock < 0 {
		return nil, errInvalidStock
	}
	return product, nil
}

func (s *Server) adminProductCreate(c *gin.Context) {
	staff := currentUser(c)

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.stores.Products.Create(c.Request.Context(), product); err != nil {
		abortStoreError(c, err)
		return
	}

	s.auditLog("create_product", product.Slug, staff.ID, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully.",
		"product": product,
	})
}

func (s *Server) adminProductUpdate(c *gin.Context) {
	staff := currentUser(c)
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	existing, err := s.stores.Products.GetByID(c.Request.Context(), productID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	if err := s.stores.Products.Update(c.Request.Context(), product); err != nil {
		abortStoreError(c, err)
		return
	}

	s.invalidateProductCache(c, existing.Slug)
	if product.Slug != existing.Slug {
		s.invalidateProductCache(c, product.Slug)
	}

	s.auditLog("update_product", product.Slug, staff.ID, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully.",
		"product": product,
	})
}

func (s *Server) adminProductDelete(c *gin.Context) {
	staff := currentUser(c)
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	existing, err := s.stores.Products.GetByID(c.Request.Context(), productID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	if err := s.stores.Products.Delete(c.Request.Context(), productID); err != nil {
		abortStoreError(c, err)
		return
	}

	s.invalidateProductCache(c, existing.Slug)

	s.auditLog("delete_product", existing.Slug, staff.ID, map[string]interface{}{
		"product_id": existing.ID,
		"name":       existing.Name,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

func (s *Server) adminCategoryList(c *gin.Context) {
	categories, err := s.stores.Categories.All(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s *Server) adminCategoryCreate(c *gin.Context) {
	staff := currentUser(c)

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategoryName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category name"})
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.stores.Categories.Create(c.Request.Context(), category); err != nil {
		abortStoreError(c, err)
		return
	}

	s.auditLog("create_category", category.Slug, staff.ID, map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully.",
		"category": category,
	})
}

func (s *Server) adminCategoryDelete(c *gin.Context) {
	staff := currentUser(c)
	categoryID, ok := uintParam(c, "category_id")
	if !ok {
		return
	}

	if err := s.stores.Categories.Delete(c.Request.Context(), categoryID); err != nil {
		abortStoreError(c, err)
		return
	}

	s.auditLog("delete_category", strconv.FormatUint(uint64(categoryID), 10), staff.ID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully."})
}

// adminAuditLog reads the audit trail for one entity (an order number or a
// product slug), newest first.
func (s *Server) adminAuditLog(c *gin.Context) {
	if s.stores.Audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit trail disabled"})
		return
	}

	entityID := c.Query("entity_id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id is required"})
		return
	}
	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := s.stores.Audit.GetAuditLogs(c.Request.Context(), entityID, limit)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (s *Server) invalidateProductCache(c *gin.Context, slug string) {
	if s.stores.Cache == nil {
		return
	}
	if err := s.stores.Cache.InvalidateProduct(c.Request.Context(), slug); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.String("slug", slug), zap.Error(err))
	}
}
