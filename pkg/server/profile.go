package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/pkg/models"
)

func (s *Server) profileView(c *gin.Context) {
	user := currentUser(c)

	addresses, err := s.stores.Addresses.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"addresses": addresses,
	})
}

type profileUpdateRequest struct {
	PhoneNumber string `json:"phone_number"`
	Picture     string `json:"picture"`
}

func (s *Server) profileUpdate(c *gin.Context) {
	user := currentUser(c)

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := s.stores.Users.UpdateProfile(c.Request.Context(), user.ID, req.PhoneNumber, req.Picture)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"profile": profile,
	})
}

type addressRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Line1       string `json:"address_line1" binding:"required"`
	Line2       string `json:"address_line2"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	PostalCode  string `json:"postal_code" binding:"required"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"is_default"`
}

func (r *addressRequest) toModel(userID uint) *models.Address {
	country := r.Country
	if country == "" {
		country = "Nigeria"
	}
	return &models.Address{
		UserID:      userID,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Line1:       r.Line1,
		Line2:       r.Line2,
		City:        r.City,
		State:       r.State,
		PostalCode:  r.PostalCode,
		Country:     country,
		IsDefault:   r.IsDefault,
	}
}

func (s *Server) addressAdd(c *gin.Context) {
	user := currentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := req.toModel(user.ID)
	if err := s.stores.Addresses.Add(c.Request.Context(), address); err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address added successfully.",
		"address": address,
	})
}

func (s *Server) addressUpdate(c *gin.Context) {
	user := currentUser(c)
	addressID, ok := uintParam(c, "address_id")
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := req.toModel(user.ID)
	address.ID = addressID
	if err := s.stores.Addresses.Update(c.Request.Context(), user.ID, address); err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully.",
		"address": address,
	})
}

func (s *Server) addressDelete(c *gin.Context) {
	user := currentUser(c)
	addressID, ok := uintParam(c, "address_id")
	if !ok {
		return
	}

	if err := s.stores.Addresses.Delete(c.Request.Context(), user.ID, addressID); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully."})
}

func (s *Server) addressSetDefault(c *gin.Context) {
	user := currentUser(c)
	addressID, ok := uintParam(c, "address_id")
	if !ok {
		return
	}

	if err := s.stores.Addresses.SetDefault(c.Request.Context(), user.ID, addressID); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default address updated."})
}
