package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/pkg/models"
)

// CheckoutInput carries the shipping and payment choices for one checkout.
// Exactly one of AddressID / NewAddress must be set.
type CheckoutInput struct {
	AddressID     uint
	NewAddress    *models.Address
	PaymentMethod models.PaymentMethod
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// PlaceOrder converts the user's cart into an order with items, an initial
// tracking row and a pending payment record, decrements stock and empties
// the cart. The whole sequence runs in one transaction; any failure aborts
// with no side effects.
func (r *OrderRepository) PlaceOrder(ctx context.Context, userID uint, input CheckoutInput) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Resolve shipping address. A freshly submitted address is
		// persisted as-is; the address-book default rule does not apply
		// here.
		var address models.Address
		if input.AddressID != 0 {
			err := tx.Where("id = ? AND user_id = ?", input.AddressID, userID).First(&address).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		} else {
			address = *input.NewAddress
			address.ID = 0
			address.UserID = userID
			address.IsDefault = false
			if err := tx.Create(&address).Error; err != nil {
				return err
			}
		}

		total := decimal.Zero
		for i := range items {
			total = total.Add(items[i].TotalPrice())
		}

		now := time.Now()
		seq, err := nextSequence(tx, now)
		if err != nil {
			return err
		}
		day := now.Format("20060102")

		order = &models.Order{
			UserID:            userID,
			OrderNumber:       fmt.Sprintf("ORD-%s-%04d", day, seq),
			DeliveryNumber:    fmt.Sprintf("DEL-%s-%04d", day, seq),
			Status:            models.StatusPending,
			PaymentMethod:     input.PaymentMethod,
			TotalAmount:       total,
			ShippingAddressID: &address.ID,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: items[i].ProductID,
				Quantity:  items[i].Quantity,
				Price:     items[i].Product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			err := tx.Model(&models.Product{}).
				Where("id = ?", items[i].ProductID).
				Update("stock", gorm.Expr("stock - ?", items[i].Quantity)).Error
			if err != nil {
				return err
			}
			item.Product = items[i].Product
			order.Items = append(order.Items, item)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		tracking := models.OrderTracking{
			OrderID:     order.ID,
			Status:      models.StatusPending,
			Description: "Order has been placed",
			UpdatedByID: &userID,
		}
		if err := tx.Create(&tracking).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID:       order.ID,
			Amount:        total,
			PaymentMethod: input.PaymentMethod,
			Status:        models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		order.ShippingAddress = &address
		order.Tracking = []models.OrderTracking{tracking}
		order.Payment = &payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// nextSequence increments and returns the daily order counter. The update
// locks the counter row for the rest of the transaction, so concurrent
// checkouts serialize here instead of colliding on order numbers.
func nextSequence(tx *gorm.DB, now time.Time) (int64, error) {
	day := now.Format("20060102")
	seq := models.OrderSequence{Day: day}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return 0, err
	}
	err := tx.Model(&models.OrderSequence{}).
		Where("day = ?", day).
		Update("value", gorm.Expr("value + 1")).Error
	if err != nil {
		return 0, err
	}
	if err := tx.Where("day = ?", day).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// GetForUser loads an order owned by the user with items, tracking history
// and payment.
func (r *OrderRepository) GetForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_tracking.created_at DESC")
		}).
		Preload("Payment").
		Preload("ShippingAddress").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns all orders newest first, optionally filtered by exact
// status. Staff console only.
func (r *OrderRepository) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

// Get loads any order by id. Staff console only.
func (r *OrderRepository) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_tracking.created_at DESC")
		}).
		Preload("Payment").
		Preload("ShippingAddress").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus applies a staff status change. The transition is validated
// against the order lifecycle table; a legal one updates the order row and
// appends the tracking entry in a single transaction, keeping the two in
// sync through this one code path. Confirming payment also settles the
// payment record.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, staffID uint, next models.OrderStatus, description, location string) (*models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return nil, ErrInvalidTransition
	}

	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next

		tracking := models.OrderTracking{
			OrderID:     order.ID,
			Status:      next,
			Description: description,
			Location:    location,
			UpdatedByID: &staffID,
		}
		if err := tx.Create(&tracking).Error; err != nil {
			return err
		}

		if next == models.StatusPaymentConfirmed {
			if err := tx.Model(&order).Update("payment_status", true).Error; err != nil {
				return err
			}
			order.PaymentStatus = true
			err := tx.Model(&models.Payment{}).
				Where("order_id = ?", order.ID).
				Updates(map[string]interface{}{
					"status":         models.PaymentCompleted,
					"transaction_id": uuid.NewString(),
					"payment_date":   time.Now(),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DashboardStats summarizes orders for the staff landing page. Revenue
// counts orders whose payment has been confirmed.
type DashboardStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

func (r *OrderRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusDelivered).Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, err
	}

	row := db.Model(&models.Order{}).
		Where("payment_status = ?", true).
		Select("COALESCE(SUM(total_amount), 0)").
		Row()
	if err := row.Scan(&stats.TotalRevenue); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Recent returns the n newest orders for the dashboard.
func (r *OrderRepository) Recent(ctx context.Context, n int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(n).
		Find(&orders).Error
	return orders, err
}
