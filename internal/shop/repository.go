package shop

import (
	"context"
	"errors"
	"time"

	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Repository is the storage the purchase flow depends on. Lookups return
// found=false (not an error) for unknown ids.
type Repository interface {
	MemberName(ctx context.Context, id uint) (name string, found bool, err error)
	ProductName(ctx context.Context, id uint) (name string, found bool, err error)
	// WithinTx runs fn as one atomic unit; any error rolls everything back.
	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type TxRepository interface {
	ProductName(id uint) (name string, found bool, err error)
	InsertPurchase(p *models.Purchase) error
	// DecrementStockClamped lowers stock by one but never below zero.
	DecrementStockClamped(productID uint) error
	// ClampNegativeStock resets any negative stock to zero and reports how many rows it touched.
	ClampNegativeStock() (int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) MemberName(ctx context.Context, id uint) (string, bool, error) {
	var m models.Member
	err := r.db.WithContext(ctx).Select("id", "name").First(&m, id).Error
	return nameResult(m.Name, err, "member lookup")
}

func (r *GormRepository) ProductName(ctx context.Context, id uint) (string, bool, error) {
	return productName(r.db.WithContext(ctx), id)
}

func (r *GormRepository) WithinTx(ctx context.Context, fn func(tx TxRepository) error) error {
	defer metrics.TrackDBOperation("purchase_tx")(time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (r *GormRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("id asc").Find(&members).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list members")
	}
	return members, nil
}

func (r *GormRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list products")
	}
	return products, nil
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) ProductName(id uint) (string, bool, error) {
	return productName(t.db, id)
}

func (t *gormTx) InsertPurchase(p *models.Purchase) error {
	return pkgerrors.Wrap(t.db.Create(p).Error, "insert purchase")
}

func (t *gormTx) DecrementStockClamped(productID uint) error {
	err := t.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("CASE WHEN stock > 0 THEN stock - 1 ELSE 0 END")).Error
	return pkgerrors.Wrapf(err, "decrement stock of product %d", productID)
}

func (t *gormTx) ClampNegativeStock() (int64, error) {
	res := t.db.Model(&models.Product{}).Where("stock < 0").Update("stock", 0)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "clamp negative stock")
	}
	return res.RowsAffected, nil
}

func productName(db *gorm.DB, id uint) (string, bool, error) {
	var p models.Product
	err := db.Select("id", "name").First(&p, id).Error
	return nameResult(p.Name, err, "product lookup")
}

func nameResult(name string, err error, op string) (string, bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(err, op)
	}
	return name, true, nil
}
