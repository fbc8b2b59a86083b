package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

type ProductStore interface {
	ListAvailable(ctx context.Context, filters repository.ProductFilters, page int) ([]models.Product, int64, error)
	AvailableBySlug(ctx context.Context, slug string) (*models.Product, error)
	Related(ctx context.Context, product *models.Product) ([]models.Product, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Latest(ctx context.Context) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type CategoryStore interface {
	All(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type CartStore interface {
	Items(ctx context.Context, userID uint) ([]models.CartItem, error)
	Count(ctx context.Context, userID uint) (int64, error)
	Add(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, cartID uint, action string) error
	Remove(ctx context.Context, userID, cartID uint) error
}

type AddressStore interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Address, error)
	GetForUser(ctx context.Context, userID, addressID uint) (*models.Address, error)
	DefaultForUser(ctx context.Context, userID uint) (*models.Address, error)
	Add(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, userID uint, address *models.Address) error
	Delete(ctx context.Context, userID, addressID uint) error
	SetDefault(ctx context.Context, userID, addressID uint) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, phone, picture string) (*models.UserProfile, error)
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, userID uint, input repository.CheckoutInput) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetForUser(ctx context.Context, userID, orderID uint) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID, staffID uint, next models.OrderStatus, description, location string) (*models.Order, error)
	Stats(ctx context.Context) (*repository.DashboardStats, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	ResolveSession(ctx context.Context, token string) (uint, error)
	DeleteSession(ctx context.Context, token string) error
}

// ProductCache is the optional redis-backed product detail cache.
type ProductCache interface {
	CacheProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	GetProductCache(ctx context.Context, slug string) (*models.Product, error)
	InvalidateProduct(ctx context.Context, slug string) error
}

// AuditStore is the optional append-only audit trail.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error)
}

// Stores bundles everything the HTTP layer depends on. Cache and Audit may
// be nil.
type Stores struct {
	Products   ProductStore
	Categories CategoryStore
	Cart       CartStore
	Addresses  AddressStore
	Users      UserStore
	Orders     OrderStore
	Sessions   SessionStore
	Cache      ProductCache
	Audit      AuditStore
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	stores Stores
}

func NewServer(cfg *config.Config, logger *zap.Logger, stores Stores) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		stores: stores,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public storefront
	s.router.GET("/", s.home)
	s.router.GET("/products", s.listProducts)
	s.router.GET("/product/:slug", s.productDetail)

	// Account lifecycle
	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)
	s.router.POST("/logout", s.requireAuth(), s.logout)

	// Customer routes
	authed := s.router.Group("/", s.requireAuth())
	{
		authed.GET("/cart", s.cartView)
		authed.POST("/cart/add/:product_id", s.cartAdd)
		authed.POST("/cart/update/:cart_id", s.cartUpdate)
		authed.POST("/cart/remove/:cart_id", s.cartRemove)

		authed.POST("/checkout", s.checkout)
		authed.GET("/orders", s.orderList)
		authed.GET("/orders/:order_id", s.orderDetail)

		authed.GET("/profile", s.profileView)
		authed.PUT("/profile", s.profileUpdate)
		authed.POST("/profile/address", s.addressAdd)
		authed.PUT("/profile/address/:address_id", s.addressUpdate)
		authed.DELETE("/profile/address/:address_id", s.addressDelete)
		authed.POST("/profile/address/:address_id/default", s.addressSetDefault)
	}

	// Staff console, gated as a whole
	dashboard := s.router.Group("/dashboard", s.requireAuth(), s.requireStaff())
	{
		dashboard.GET("", s.adminDashboard)
		dashboard.GET("/orders", s.adminOrderList)
		dashboard.GET("/orders/:order_id", s.adminOrderDetail)
		dashboard.POST("/orders/:order_id/status", s.adminOrderStatus)

		dashboard.GET("/products", s.adminProductList)
		dashboard.POST("/products", s.adminProductCreate)
		dashboard.PUT("/products/:product_id", s.adminProductUpdate)
		dashboard.DELETE("/products/:product_id", s.adminProductDelete)

		dashboard.GET("/categories", s.adminCategoryList)
		dashboard.POST("/categories", s.adminCategoryCreate)
		dashboard.DELETE("/categories/:category_id", s.adminCategoryDelete)

		dashboard.GET("/audit", s.adminAuditLog)
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Storefront starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// auditLog writes an audit document asynchronously; a disabled trail is a
// no-op.
func (s *Server) auditLog(action, entityID string, actorID uint, data map[string]interface{}) {
	if s.stores.Audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.stores.Audit.CreateAuditLog(ctx, &repository.AuditLog{
			Action:   action,
			EntityID: entityID,
			ActorID:  actorID,
			Data:     bson.M(data),
		})
		if err != nil {
			s.logger.Warn("Failed to write audit log",
				zap.String("action", action),
				zap.Error(err))
		}
	}()
}
