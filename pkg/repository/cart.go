package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/storefront/pkg/models"
)

const (
	CartActionIncrease = "increase"
	CartActionDecrease = "decrease"
)

var ErrUnknownCartAction = errors.New("unknown cart action")

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Items lists the user's cart rows with products preloaded.
func (r *CartRepository) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Find(&items).Error
	return items, err
}

// Count returns the number of cart rows for the user.
func (r *CartRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Add puts one unit of the product into the user's cart. A product with no
// stock is rejected without touching the cart; an existing row for the pair
// merges by incrementing quantity. The incremented quantity is not
// re-checked against stock.
func (r *CartRepository) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.InStock() {
		return nil, ErrOutOfStock
	}

	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	switch {
	case err == nil:
		item.Quantity++
		if err := r.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	item.Product = product
	return &item, nil
}

// UpdateQuantity applies an increase/decrease action to a cart row owned by
// the user. Decreasing a row at quantity 1 deletes it.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, cartID uint, action string) error {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	switch action {
	case CartActionIncrease:
		item.Quantity++
	case CartActionDecrease:
		if item.Quantity <= 1 {
			return r.db.WithContext(ctx).Delete(&item).Error
		}
		item.Quantity--
	default:
		return ErrUnknownCartAction
	}

	return r.db.WithContext(ctx).Save(&item).Error
}

// Remove deletes a cart row owned by the user.
func (r *CartRepository) Remove(ctx context.Context, userID, cartID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
