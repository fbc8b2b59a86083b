package repository

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/storefront/pkg/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := seedUser(t, db, username)
	require.NoError(t, db.Model(user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, category *models.Category, name, slug string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: category.ID,
		Name:       name,
		Slug:       slug,
		Price:      decimal.NewFromFloat(price),
		Stock:      stock,
		Available:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedAddress(t *testing.T, db *gorm.DB, repo *AddressRepository, userID uint, city string, isDefault bool) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:      userID,
		FullName:    "Test User",
		PhoneNumber: "0800000000",
		Line1:       "1 Test Street",
		City:        city,
		State:       "Lagos",
		PostalCode:  "100001",
		Country:     "Nigeria",
		IsDefault:   isDefault,
	}
	require.NoError(t, repo.Add(t.Context(), address))
	return address
}
