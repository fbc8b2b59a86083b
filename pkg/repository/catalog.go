package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/example/storefront/pkg/models"
)

// PageSize is the fixed catalog page size.
const PageSize = 12

const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNewest    = "newest"
)

type ProductFilters struct {
	CategorySlug string
	Query        string
	Sort         string
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListAvailable returns one page of available products plus the total match
// count. Unavailable products never appear in public listings.
func (r *ProductRepository) ListAvailable(ctx context.Context, filters ProductFilters, page int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Preload("Category").
		Where("products.available = ?", true)

	if filters.CategorySlug != "" {
		var category models.Category
		err := r.db.WithContext(ctx).Where("slug = ?", filters.CategorySlug).First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrNotFound
			}
			return nil, 0, err
		}
		query = query.Where("products.category_id = ?", category.ID)
	}

	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	switch filters.Sort {
	case SortPriceLow:
		query = query.Order("products.price ASC")
	case SortPriceHigh:
		query = query.Order("products.price DESC")
	case SortNewest:
		query = query.Order("products.created_at DESC")
	default:
		query = query.Order("products.created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var products []models.Product
	if err := query.Offset((page - 1) * PageSize).Limit(PageSize).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// AvailableBySlug resolves a product for the public detail view. Absent and
// unavailable products are both not-found.
func (r *ProductRepository) AvailableBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND available = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Related returns up to 4 other available products from the same category.
func (r *ProductRepository) Related(ctx context.Context, product *models.Product) ([]models.Product, error) {
	var related []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND available = ? AND id != ?", product.CategoryID, true, product.ID).
		Limit(4).
		Find(&related).Error
	if err != nil {
		return nil, err
	}
	return related, nil
}

// Featured returns the first 8 available products for the landing page.
func (r *ProductRepository) Featured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("available = ?", true).
		Limit(8).
		Find(&products).Error
	return products, err
}

// Latest returns the 12 newest available products for the landing page.
func (r *ProductRepository) Latest(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("available = ?", true).
		Order("created_at DESC").
		Limit(12).
		Find(&products).Error
	return products, err
}

// ListAll returns every product newest-first, including unavailable ones.
// Staff console only.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product along with its cart rows and order items. The
// order-item cascade erases purchase history detail for that product; that
// matches the declared schema semantics.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? OR slug = ?", category.Name, category.Slug).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// Delete removes a category and all of its products.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var productIDs []uint
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
}
