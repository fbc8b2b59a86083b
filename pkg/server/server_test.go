package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

// --- Mock stores ---

type mockProductStore struct {
	ListAvailableFn   func(ctx context.Context, filters repository.ProductFilters, page int) ([]models.Product, int64, error)
	AvailableBySlugFn func(ctx context.Context, slug string) (*models.Product, error)
	RelatedFn         func(ctx context.Context, product *models.Product) ([]models.Product, error)
	FeaturedFn        func(ctx context.Context) ([]models.Product, error)
	LatestFn          func(ctx context.Context) ([]models.Product, error)
	ListAllFn         func(ctx context.Context) ([]models.Product, error)
	GetByIDFn         func(ctx context.Context, id uint) (*models.Product, error)
	CreateFn          func(ctx context.Context, product *models.Product) error
	UpdateFn          func(ctx context.Context, product *models.Product) error
	DeleteFn          func(ctx context.Context, id uint) error

	lastFilters repository.ProductFilters
	lastPage    int
}

func (m *mockProductStore) ListAvailable(ctx context.Context, filters repository.ProductFilters, page int) ([]models.Product, int64, error) {
	m.lastFilters = filters
	m.lastPage = page
	if m.ListAvailableFn != nil {
		return m.ListAvailableFn(ctx, filters, page)
	}
	return nil, 0, nil
}

func (m *mockProductStore) AvailableBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.AvailableBySlugFn != nil {
		return m.AvailableBySlugFn(ctx, slug)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductStore) Related(ctx context.Context, product *models.Product) ([]models.Product, error) {
	if m.RelatedFn != nil {
		return m.RelatedFn(ctx, product)
	}
	return nil, nil
}

func (m *mockProductStore) Featured(ctx context.Context) ([]models.Product, error) {
	if m.FeaturedFn != nil {
		return m.FeaturedFn(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) Latest(ctx context.Context) ([]models.Product, error) {
	if m.LatestFn != nil {
		return m.LatestFn(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) ListAll(ctx context.Context) ([]models.Product, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductStore) Create(ctx context.Context, product *models.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}
	return nil
}

func (m *mockProductStore) Update(ctx context.Context, product *models.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}
	return nil
}

func (m *mockProductStore) Delete(ctx context.Context, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

type mockCategoryStore struct {
	AllFn    func(ctx context.Context) ([]models.Category, error)
	CreateFn func(ctx context.Context, category *models.Category) error
	DeleteFn func(ctx context.Context, id uint) error
}

func (m *mockCategoryStore) All(ctx context.Context) ([]models.Category, error) {
	if m.AllFn != nil {
		return m.AllFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryStore) Create(ctx context.Context, category *models.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryStore) Delete(ctx context.Context, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

type mockCartStore struct {
	ItemsFn          func(ctx context.Context, userID uint) ([]models.CartItem, error)
	AddFn            func(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	UpdateQuantityFn func(ctx context.Context, userID, cartID uint, action string) error
	RemoveFn         func(ctx context.Context, userID, cartID uint) error
}

func (m *mockCartStore) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	if m.ItemsFn != nil {
		return m.ItemsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCartStore) Count(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}

func (m *mockCartStore) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, productID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockCartStore) UpdateQuantity(ctx context.Context, userID, cartID uint, action string) error {
	if m.UpdateQuantityFn != nil {
		return m.UpdateQuantityFn(ctx, userID, cartID, action)
	}
	return nil
}

func (m *mockCartStore) Remove(ctx context.Context, userID, cartID uint) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, cartID)
	}
	return nil
}

type mockAddressStore struct {
	ListByUserFn func(ctx context.Context, userID uint) ([]models.Address, error)
	AddFn        func(ctx context.Context, address *models.Address) error
}

func (m *mockAddressStore) ListByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAddressStore) GetForUser(ctx context.Context, userID, addressID uint) (*models.Address, error) {
	return nil, repository.ErrNotFound
}

func (m *mockAddressStore) DefaultForUser(ctx context.Context, userID uint) (*models.Address, error) {
	return nil, repository.ErrNotFound
}

func (m *mockAddressStore) Add(ctx context.Context, address *models.Address) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, address)
	}
	return nil
}

func (m *mockAddressStore) Update(ctx context.Context, userID uint, address *models.Address) error {
	return nil
}

func (m *mockAddressStore) Delete(ctx context.Context, userID, addressID uint) error {
	return nil
}

func (m *mockAddressStore) SetDefault(ctx context.Context, userID, addressID uint) error {
	return nil
}

type mockUserStore struct {
	users map[uint]*models.User

	CreateFn     func(ctx context.Context, user *models.User) error
	ByUsernameFn func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.ByUsernameFn != nil {
		return m.ByUsernameFn(ctx, username)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, userID uint, phone, picture string) (*models.UserProfile, error) {
	return &models.UserProfile{UserID: userID, PhoneNumber: phone, Picture: picture}, nil
}

type mockOrderStore struct {
	PlaceOrderFn   func(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error)
	ListByUserFn   func(ctx context.Context, userID uint) ([]models.Order, error)
	GetForUserFn   func(ctx context.Context, userID, orderID uint) (*models.Order, error)
	ListFn         func(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	GetFn          func(ctx context.Context, orderID uint) (*models.Order, error)
	UpdateStatusFn func(ctx context.Context, orderID, staffID uint, next models.OrderStatus, description, location string) (*models.Order, error)
}

func (m *mockOrderStore) PlaceOrder(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error) {
	if m.PlaceOrderFn != nil {
		return m.PlaceOrderFn(ctx, userID, input)
	}
	return nil, repository.ErrEmptyCart
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderStore) GetForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, orderID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderStore) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status)
	}
	return nil, nil
}

func (m *mockOrderStore) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, orderID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID, staffID uint, next models.OrderStatus, description, location string) (*models.Order, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, orderID, staffID, next, description, location)
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderStore) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (m *mockOrderStore) Recent(ctx context.Context, n int) ([]models.Order, error) {
	return nil, nil
}

// mockProductCache records invalidations and never hits.
type mockProductCache struct {
	invalidated []string
}

func (m *mockProductCache) CacheProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return nil
}

func (m *mockProductCache) GetProductCache(ctx context.Context, slug string) (*models.Product, error) {
	return nil, nil
}

func (m *mockProductCache) InvalidateProduct(ctx context.Context, slug string) error {
	m.invalidated = append(m.invalidated, slug)
	return nil
}

type mockAuditStore struct {
	logs []*repository.AuditLog
}

func (m *mockAuditStore) CreateAuditLog(ctx context.Context, log *repository.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditStore) GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error) {
	var out []*repository.AuditLog
	for _, log := range m.logs {
		if log.EntityID == entityID {
			out = append(out, log)
		}
	}
	return out, nil
}

// mockSessionStore maps fixed tokens to user ids.
type mockSessionStore struct {
	sessions map[string]uint
}

func (m *mockSessionStore) CreateSession(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	token := "token"
	if m.sessions == nil {
		m.sessions = map[string]uint{}
	}
	m.sessions[token] = userID
	return token, nil
}

func (m *mockSessionStore) ResolveSession(ctx context.Context, token string) (uint, error) {
	if id, ok := m.sessions[token]; ok {
		return id, nil
	}
	return 0, repository.ErrSessionNotFound
}

func (m *mockSessionStore) DeleteSession(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{CookieName: "session_id", TTL: time.Hour},
		Cache:   config.CacheConfig{ProductTTL: time.Minute},
	}
}

// newTestServer wires a server with the given stores, a customer session
// "customer-token" for user 1 and a staff session "staff-token" for user 2.
func newTestServer(t *testing.T, stores Stores) *Server {
	t.Helper()

	if stores.Users == nil {
		stores.Users = &mockUserStore{}
	}
	if us, ok := stores.Users.(*mockUserStore); ok && us.users == nil {
		us.users = map[uint]*models.User{
			1: {ID: 1, Username: "alice"},
			2: {ID: 2, Username: "root", IsStaff: true},
		}
	}
	if stores.Sessions == nil {
		stores.Sessions = &mockSessionStore{sessions: map[string]uint{
			"customer-token": 1,
			"staff-token":    2,
		}}
	}
	if stores.Products == nil {
		stores.Products = &mockProductStore{}
	}
	if stores.Categories == nil {
		stores.Categories = &mockCategoryStore{}
	}
	if stores.Cart == nil {
		stores.Cart = &mockCartStore{}
	}
	if stores.Addresses == nil {
		stores.Addresses = &mockAddressStore{}
	}
	if stores.Orders == nil {
		stores.Orders = &mockOrderStore{}
	}

	srv := NewServer(testConfig(), zap.NewNop(), stores)
	srv.SetupRoutes()
	return srv
}

func doRequest(srv *Server, method, url, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}
