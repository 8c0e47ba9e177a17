// Package dbtest opens throwaway in-memory SQLite databases with the full
// schema migrated, for storage-level tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"labbooth-backend/internal/database"
	"labbooth-backend/internal/models"

	"gorm.io/gorm"
)

var seq atomic.Int64

func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedMember(t testing.TB, db *gorm.DB, name string) models.Member {
	t.Helper()
	m := models.Member{Name: name}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func SeedProduct(t testing.TB, db *gorm.DB, name string, price, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedPurchase(t testing.TB, db *gorm.DB, memberID, productID uint, ts string) {
	t.Helper()
	p := models.Purchase{MemberID: memberID, ProductID: productID, Timestamp: ts}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
}

func Stock(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, productID).Error; err != nil {
		t.Fatalf("load product %d: %v", productID, err)
	}
	return p.Stock
}
