package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending          OrderStatus = "pending"
	StatusPaymentConfirmed OrderStatus = "payment_confirmed"
	StatusPickedUp         OrderStatus = "picked_up"
	StatusPackaging        OrderStatus = "packaging"
	StatusInTransit        OrderStatus = "in_transit"
	StatusOutForDelivery   OrderStatus = "out_for_delivery"
	StatusDelivered        OrderStatus = "delivered"
	StatusCancelled        OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentTransfer       PaymentMethod = "transfer"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCard, PaymentTransfer, PaymentCashOnDelivery:
		return true
	}
	return false
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// orderTransitions is the legal next-status table for the order lifecycle.
// Delivered and cancelled are terminal; cancellation is reachable from any
// non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:          {StatusPaymentConfirmed, StatusCancelled},
	StatusPaymentConfirmed: {StatusPickedUp, StatusCancelled},
	StatusPickedUp:         {StatusPackaging, StatusCancelled},
	StatusPackaging:        {StatusInTransit, StatusCancelled},
	StatusInTransit:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery:   {StatusDelivered, StatusCancelled},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	User              User            `gorm:"foreignKey:UserID" json:"-"`
	OrderNumber       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	DeliveryNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"delivery_number"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus     bool            `gorm:"not null;default:false" json:"payment_status"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ShippingAddressID *uint           `json:"shipping_address_id,omitempty"`
	ShippingAddress   *Address        `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:SET NULL" json:"shipping_address,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Tracking []OrderTracking `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"tracking,omitempty"`
	Payment  *Payment        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem captures quantity and the unit price at time of purchase,
// decoupled from later changes to the live product price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTracking is an append-only log row per status change. Rows are never
// updated or deleted once written.
type OrderTracking struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderID     uint        `gorm:"not null;index" json:"order_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Description string      `gorm:"type:text" json:"description"`
	Location    string      `gorm:"type:varchar(200)" json:"location"`
	UpdatedByID *uint       `json:"updated_by_id,omitempty"`
	UpdatedBy   *User       `gorm:"foreignKey:UpdatedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (OrderTracking) TableName() string {
	return "order_tracking"
}

// OrderSequence is a storage-owned daily counter backing order and delivery
// number generation. Incremented inside the checkout transaction so
// concurrent checkouts serialize on the row instead of colliding.
type OrderSequence struct {
	Day   string `gorm:"primaryKey;type:varchar(8)"`
	Value int64  `gorm:"not null;default:0"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}
