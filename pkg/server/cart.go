package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) cartView(c *gin.Context) {
	user := currentUser(c)

	items, err := s.stores.Cart.Items(c.Request.Context(), user.ID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].TotalPrice())
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"count": len(items),
	})
}

func (s *Server) cartAdd(c *gin.Context) {
	user := currentUser(c)
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	item, err := s.stores.Cart.Add(c.Request.Context(), user.ID, productID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	count, err := s.stores.Cart.Count(c.Request.Context(), user.ID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	message := item.Product.Name + " added to cart."
	if item.Quantity > 1 {
		message = item.Product.Name + " quantity updated in cart."
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"item":       item,
		"cart_count": count,
	})
}

type cartUpdateRequest struct {
	Action string `json:"action" binding:"required"`
}

func (s *Server) cartUpdate(c *gin.Context) {
	user := currentUser(c)
	cartID, ok := uintParam(c, "cart_id")
	if !ok {
		return
	}

	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.stores.Cart.UpdateQuantity(c.Request.Context(), user.ID, cartID, req.Action); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated."})
}

func (s *Server) cartRemove(c *gin.Context) {
	user := currentUser(c)
	cartID, ok := uintParam(c, "cart_id")
	if !ok {
		return
	}

	if err := s.stores.Cart.Remove(c.Request.Context(), user.ID, cartID); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart."})
}
