package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

func TestCartRequiresAuth(t *testing.T) {
	srv := newTestServer(t, Stores{})

	cases := []struct {
		method string
		url    string
	}{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart/add/1"},
		{http.MethodPost, "/checkout"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/profile"},
	}
	for _, tc := range cases {
		rec := doRequest(srv, tc.method, tc.url, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.url)

		rec = doRequest(srv, tc.method, tc.url, "expired-token", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s stale token", tc.method, tc.url)
	}
}

func TestCartView(t *testing.T) {
	cart := &mockCartStore{
		ItemsFn: func(ctx context.Context, userID uint) ([]models.CartItem, error) {
			require.Equal(t, uint(1), userID)
			return []models.CartItem{
				{ID: 1, Quantity: 2, Product: models.Product{Price: decimal.NewFromInt(10)}},
				{ID: 2, Quantity: 1, Product: models.Product{Price: decimal.RequireFromString("7.50")}},
			}, nil
		},
	}
	srv := newTestServer(t, Stores{Cart: cart})

	rec := doRequest(srv, http.MethodGet, "/cart", "customer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total string `json:"total"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "27.5", body.Total)
	assert.Equal(t, 2, body.Count)
}

func TestCartAddResponses(t *testing.T) {
	cases := []struct {
		name     string
		addErr   error
		item     *models.CartItem
		wantCode int
		wantMsg  string
	}{
		{
			name:     "first add",
			item:     &models.CartItem{Quantity: 1, Product: models.Product{Name: "Mouse"}},
			wantCode: http.StatusOK,
			wantMsg:  "Mouse added to cart.",
		},
		{
			name:     "merged add",
			item:     &models.CartItem{Quantity: 3, Product: models.Product{Name: "Mouse"}},
			wantCode: http.StatusOK,
			wantMsg:  "Mouse quantity updated in cart.",
		},
		{
			name:     "out of stock",
			addErr:   repository.ErrOutOfStock,
			wantCode: http.StatusConflict,
		},
		{
			name:     "unknown product",
			addErr:   repository.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cart := &mockCartStore{
				AddFn: func(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
					return tc.item, tc.addErr
				},
			}
			srv := newTestServer(t, Stores{Cart: cart})

			rec := doRequest(srv, http.MethodPost, "/cart/add/5", "customer-token", "")
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantMsg != "" {
				var body struct {
					Message string `json:"message"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.wantMsg, body.Message)
			}
		})
	}
}

func TestCartAddMalformedID(t *testing.T) {
	srv := newTestServer(t, Stores{})
	rec := doRequest(srv, http.MethodPost, "/cart/add/banana", "customer-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUpdateActions(t *testing.T) {
	var gotAction string
	cart := &mockCartStore{
		UpdateQuantityFn: func(ctx context.Context, userID, cartID uint, action string) error {
			gotAction = action
			if action != repository.CartActionIncrease && action != repository.CartActionDecrease {
				return repository.ErrUnknownCartAction
			}
			return nil
		},
	}
	srv := newTestServer(t, Stores{Cart: cart})

	rec := doRequest(srv, http.MethodPost, "/cart/update/3", "customer-token", `{"action":"increase"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "increase", gotAction)

	rec = doRequest(srv, http.MethodPost, "/cart/update/3", "customer-token", `{"action":"double"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/cart/update/3", "customer-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveForeignItem(t *testing.T) {
	cart := &mockCartStore{
		RemoveFn: func(ctx context.Context, userID, cartID uint) error {
			return repository.ErrNotFound
		},
	}
	srv := newTestServer(t, Stores{Cart: cart})

	rec := doRequest(srv, http.MethodPost, "/cart/remove/99", "customer-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutValidation(t *testing.T) {
	srv := newTestServer(t, Stores{})

	cases := []struct {
		name string
		body string
	}{
		{"missing payment method", `{"address_id": 1}`},
		{"unknown payment method", `{"address_id": 1, "payment_method": "bitcoin"}`},
		{"no address at all", `{"payment_method": "cash_on_delivery"}`},
		{"incomplete new address", `{"payment_method": "cash_on_delivery", "address": {"full_name": "Ada"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/checkout", "customer-token", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckoutSuccess(t *testing.T) {
	orders := &mockOrderStore{
		PlaceOrderFn: func(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error) {
			require.Equal(t, uint(1), userID)
			require.Equal(t, uint(4), input.AddressID)
			require.Equal(t, models.PaymentCashOnDelivery, input.PaymentMethod)
			return &models.Order{
				ID:          11,
				OrderNumber: "ORD-20260831-0001",
				TotalAmount: decimal.NewFromInt(20),
			}, nil
		},
	}
	srv := newTestServer(t, Stores{Orders: orders})

	rec := doRequest(srv, http.MethodPost, "/checkout", "customer-token",
		`{"address_id": 4, "payment_method": "cash_on_delivery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order placed successfully! Order Number: ORD-20260831-0001", body.Message)
}

func TestCheckoutInvalidatesProductCache(t *testing.T) {
	orders := &mockOrderStore{
		PlaceOrderFn: func(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error) {
			return &models.Order{
				OrderNumber: "ORD-20260831-0001",
				Items: []models.OrderItem{
					{ProductID: 1, Product: models.Product{Slug: "gaming-laptop"}},
					{ProductID: 2, Product: models.Product{Slug: "wireless-mouse"}},
				},
			}, nil
		},
	}
	cache := &mockProductCache{}
	srv := newTestServer(t, Stores{Orders: orders, Cache: cache})

	rec := doRequest(srv, http.MethodPost, "/checkout", "customer-token",
		`{"address_id": 4, "payment_method": "cash_on_delivery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.ElementsMatch(t, []string{"gaming-laptop", "wireless-mouse"}, cache.invalidated)
}

func TestCheckoutNewAddressDefaultsCountry(t *testing.T) {
	var got *models.Address
	orders := &mockOrderStore{
		PlaceOrderFn: func(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error) {
			got = input.NewAddress
			return &models.Order{OrderNumber: "ORD-20260831-0002"}, nil
		},
	}
	srv := newTestServer(t, Stores{Orders: orders})

	rec := doRequest(srv, http.MethodPost, "/checkout", "customer-token", `{
		"payment_method": "transfer",
		"address": {
			"full_name": "Ada Obi",
			"phone_number": "0800000000",
			"address_line1": "12 Marina Rd",
			"city": "Lagos",
			"state": "Lagos",
			"postal_code": "100001"
		}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Nigeria", got.Country)
	assert.Equal(t, "Ada Obi", got.FullName)
}

func TestCheckoutEmptyCart(t *testing.T) {
	srv := newTestServer(t, Stores{Orders: &mockOrderStore{}})

	rec := doRequest(srv, http.MethodPost, "/checkout", "customer-token",
		`{"address_id": 1, "payment_method": "cash_on_delivery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailOwnership(t *testing.T) {
	orders := &mockOrderStore{
		GetForUserFn: func(ctx context.Context, userID, orderID uint) (*models.Order, error) {
			if userID == 1 && orderID == 11 {
				return &models.Order{ID: 11, OrderNumber: "ORD-20260831-0001"}, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	srv := newTestServer(t, Stores{Orders: orders})

	rec := doRequest(srv, http.MethodGet, "/orders/11", "customer-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/orders/12", "customer-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
