package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

type checkoutAddress struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Line1       string `json:"address_line1"`
	Line2       string `json:"address_line2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

type checkoutRequest struct {
	AddressID     uint             `json:"address_id"`
	Address       *checkoutAddress `json:"address"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
}

func (r *checkoutRequest) validate() error {
	if !models.ValidPaymentMethod(models.PaymentMethod(r.PaymentMethod)) {
		return fmt.Errorf("unknown payment method %q", r.PaymentMethod)
	}
	if r.AddressID != 0 {
		return nil
	}
	if r.Address == nil {
		return fmt.Errorf("either address_id or a new address is required")
	}
	required := map[string]string{
		"full_name":     r.Address.FullName,
		"phone_number":  r.Address.PhoneNumber,
		"address_line1": r.Address.Line1,
		"city":          r.Address.City,
		"state":         r.Address.State,
		"postal_code":   r.Address.PostalCode,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	return nil
}

// checkout places an order for the user's current cart.
func (s *Server) checkout(c *gin.Context) {
	user := currentUser(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := repository.CheckoutInput{
		AddressID:     req.AddressID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	}
	if req.AddressID == 0 {
		country := req.Address.Country
		if country == "" {
			country = "Nigeria"
		}
		input.NewAddress = &models.Address{
			FullName:    req.Address.FullName,
			PhoneNumber: req.Address.PhoneNumber,
			Line1:       req.Address.Line1,
			Line2:       req.Address.Line2,
			City:        req.Address.City,
			State:       req.Address.State,
			PostalCode:  req.Address.PostalCode,
			Country:     country,
		}
	}

	order, err := s.stores.Orders.PlaceOrder(c.Request.Context(), user.ID, input)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	// Stock changed, so cached detail pages are stale.
	for i := range order.Items {
		if order.Items[i].Product.Slug != "" {
			s.invalidateProductCache(c, order.Items[i].Product.Slug)
		}
	}

	s.logger.Info("Order placed",
		zap.Uint("user_id", user.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.String()))

	s.auditLog("place_order", order.OrderNumber, user.ID, map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.String(),
		"items":        len(order.Items),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Order placed successfully! Order Number: %s", order.OrderNumber),
		"order":   order,
	})
}

func (s *Server) orderList(c *gin.Context) {
	user := currentUser(c)

	orders, err := s.stores.Orders.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) orderDetail(c *gin.Context) {
	user := currentUser(c)
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := s.stores.Orders.GetForUser(c.Request.Context(), user.ID, orderID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
