package restock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// HistoryInput is an admin-entered restock row. ProductID wins over Barcode;
// when neither matches a product one is created.
type HistoryInput struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	UnitPrice   float64 `json:"unit_price"`
	Price       *int    `json:"price"`
	Quantity    *int    `json:"quantity"`
	Subtotal    int     `json:"subtotal"`
	Timestamp   string  `json:"timestamp"`
}

func (in *HistoryInput) validate() error {
	if in.Quantity == nil {
		return apperr.New(apperr.KindInvalidRequest, "quantity is required")
	}
	if *in.Quantity < 0 {
		return apperr.New(apperr.KindInvalidRequest, "quantity cannot be negative")
	}
	if in.Price != nil && *in.Price < 0 {
		return apperr.New(apperr.KindInvalidRequest, "price cannot be negative")
	}
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.ProductName = strings.TrimSpace(in.ProductName)
	return nil
}

type HistoryService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewHistoryService(db *gorm.DB, c clock.Clock) *HistoryService {
	if c == nil {
		c = clock.System{}
	}
	return &HistoryService{db: db, clock: c}
}

func (s *HistoryService) List(ctx context.Context, desc bool) ([]models.RestockHistory, error) {
	order := "id asc"
	if desc {
		order = "id desc"
	}
	var rows []models.RestockHistory
	if err := s.db.WithContext(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list restock history", err)
	}
	return rows, nil
}

// Create stores the row and raises the product's stock by its quantity.
func (s *HistoryService) Create(ctx context.Context, in HistoryInput, actor string) (*models.RestockHistory, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var row models.RestockHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := resolveProduct(tx, in)
		if err != nil {
			return err
		}
		if err := adjustStock(tx, product.ID, *in.Quantity, in.Price); err != nil {
			return err
		}

		row = s.rowFrom(in, product)
		if err := tx.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(err, "insert restock history")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "restock_history",
			EntityID:    row.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok girişi: %s +%d", row.ProductName, row.Quantity),
			After:       row,
		})
	})
	if err != nil {
		return nil, txError(err, "failed to create restock entry")
	}
	return &row, nil
}

// Update rewrites the row and moves stock by the quantity difference, or from
// the old product to the new one when the product changed.
func (s *HistoryService) Update(ctx context.Context, id uint, in HistoryInput, actor string) (*models.RestockHistory, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var row models.RestockHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RestockHistory
		if err := tx.First(&old, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "restock entry not found")
			}
			return pkgerrors.Wrap(err, "load restock history")
		}

		if in.ProductID == 0 && in.Barcode == "" {
			in.ProductID = old.ProductID
		}
		product, err := resolveProduct(tx, in)
		if err != nil {
			return err
		}

		if product.ID != old.ProductID {
			if err := adjustStock(tx, old.ProductID, -old.Quantity, nil); err != nil {
				return err
			}
			if err := adjustStock(tx, product.ID, *in.Quantity, in.Price); err != nil {
				return err
			}
		} else if err := adjustStock(tx, product.ID, *in.Quantity-old.Quantity, in.Price); err != nil {
			return err
		}

		if in.Timestamp == "" {
			in.Timestamp = old.Timestamp
		}
		row = s.rowFrom(in, product)
		row.ID = old.ID
		if err := tx.Save(&row).Error; err != nil {
			return pkgerrors.Wrap(err, "update restock history")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "restock_history",
			EntityID:    row.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Stok girişi güncellendi: %s", row.ProductName),
			Before:      old,
			After:       row,
		})
	})
	if err != nil {
		return nil, txError(err, "failed to update restock entry")
	}
	return &row, nil
}

// Delete removes the audit row only; stock already on the shelf is left alone.
func (s *HistoryService) Delete(ctx context.Context, id uint, actor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RestockHistory
		if err := tx.First(&old, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "restock entry not found")
			}
			return pkgerrors.Wrap(err, "load restock history")
		}
		if err := tx.Delete(&old).Error; err != nil {
			return pkgerrors.Wrap(err, "delete restock history")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:      actor,
			EntityType: "restock_history",
			EntityID:   old.ID,
			Action:     models.AuditActionDelete,
			Before:     old,
		})
	})
	if err != nil {
		return txError(err, "failed to delete restock entry")
	}
	return nil
}

func (s *HistoryService) rowFrom(in HistoryInput, p *models.Product) models.RestockHistory {
	name := in.ProductName
	if name == "" {
		name = p.Name
	}
	barcode := in.Barcode
	if barcode == "" && p.Barcode != nil {
		barcode = *p.Barcode
	}
	price := p.Price
	if in.Price != nil {
		price = *in.Price
	}
	ts := in.Timestamp
	if ts == "" {
		ts = clock.NowString(s.clock)
	}
	return models.RestockHistory{
		ProductID:   p.ID,
		ProductName: name,
		Barcode:     barcode,
		UnitPrice:   in.UnitPrice,
		Price:       price,
		Quantity:    *in.Quantity,
		Subtotal:    in.Subtotal,
		Timestamp:   ts,
	}
}

func resolveProduct(tx *gorm.DB, in HistoryInput) (*models.Product, error) {
	var p models.Product
	if in.ProductID != 0 {
		err := tx.First(&p, in.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindInvalidProduct, "unknown product_id")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(err, "load product")
		}
		return &p, nil
	}

	if in.Barcode != "" {
		err := tx.Where("barcode = ?", in.Barcode).First(&p).Error
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(err, "find product by barcode")
		}
	}

	// Yeni ürün: stok 0 ile açılır, miktar adjustStock ile eklenir
	p = models.Product{Name: in.ProductName, Stock: 0}
	if p.Name == "" {
		p.Name = "New product"
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Barcode != "" {
		barcode := in.Barcode
		p.Barcode = &barcode
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create product")
	}
	return &p, nil
}

// txError keeps apperr kinds raised inside a transaction and wraps storage errors.
func txError(err error, message string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Wrap(apperr.KindTransactionFailure, message, err)
}
