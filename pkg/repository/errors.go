package repository

import "errors"

var (
	// ErrNotFound covers both genuinely missing rows and ownership
	// mismatches; callers never learn which.
	ErrNotFound = errors.New("record not found")

	ErrOutOfStock        = errors.New("product is out of stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrDuplicate         = errors.New("record already exists")
)
