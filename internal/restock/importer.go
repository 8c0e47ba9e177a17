package restock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/models"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Item is one order line produced by the order-mail text extractor.
type Item struct {
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	UnitPrice   float64 `json:"unit_price"`
	Price       int     `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    int     `json:"subtotal"`
}

type Importer struct {
	db    *gorm.DB
	clock clock.Clock
	log   *zap.Logger
}

func NewImporter(db *gorm.DB, c clock.Clock, log *zap.Logger) *Importer {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{db: db, clock: c, log: log}
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return apperr.New(apperr.KindInvalidRequest, "no items to import")
	}
	for i := range items {
		items[i].Barcode = strings.TrimSpace(items[i].Barcode)
		items[i].ProductName = strings.TrimSpace(items[i].ProductName)
		it := items[i]
		if it.Barcode == "" || it.ProductName == "" {
			return apperr.New(apperr.KindInvalidRequest, fmt.Sprintf("item %d: product_name and barcode are required", i+1))
		}
		if it.Quantity < 0 || it.Price < 0 {
			return apperr.New(apperr.KindInvalidRequest, fmt.Sprintf("item %d: quantity and price cannot be negative", i+1))
		}
	}
	return nil
}

// Import applies every item in one transaction: a known barcode gets the new
// price and its stock raised by the quantity, an unknown one becomes a new
// product. Each item also lands in restock_history under one shared timestamp.
func (im *Importer) Import(ctx context.Context, items []Item, actor string) (int, error) {
	if err := validateItems(items); err != nil {
		return 0, err
	}

	ts := clock.NowString(im.clock)
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			productID, err := upsertByBarcode(tx, it)
			if err != nil {
				return err
			}
			row := models.RestockHistory{
				ProductID:   productID,
				ProductName: it.ProductName,
				Barcode:     it.Barcode,
				UnitPrice:   it.UnitPrice,
				Price:       it.Price,
				Quantity:    it.Quantity,
				Subtotal:    it.Subtotal,
				Timestamp:   ts,
			}
			if err := tx.Create(&row).Error; err != nil {
				return pkgerrors.Wrap(err, "insert restock history")
			}
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "restock_history",
			Action:      models.AuditActionImport,
			Description: fmt.Sprintf("Stok girişi içe aktarıldı: %d kalem", len(items)),
			After:       items,
		})
	})
	if err != nil {
		im.log.Error("restock import failed", zap.Int("items", len(items)), zap.Error(err))
		return 0, apperr.Wrap(apperr.KindTransactionFailure, "restock import failed", err)
	}

	metrics.RecordRestockImport(len(items))
	im.log.Info("restock imported", zap.Int("items", len(items)), zap.String("timestamp", ts))
	return len(items), nil
}

func upsertByBarcode(tx *gorm.DB, it Item) (uint, error) {
	var p models.Product
	err := tx.Where("barcode = ?", it.Barcode).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		barcode := it.Barcode
		p = models.Product{Name: it.ProductName, Price: it.Price, Stock: it.Quantity, Barcode: &barcode}
		if err := tx.Create(&p).Error; err != nil {
			return 0, pkgerrors.Wrap(err, "create product")
		}
		return p.ID, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(err, "find product by barcode")
	}

	price := it.Price
	if err := adjustStock(tx, p.ID, it.Quantity, &price); err != nil {
		return 0, err
	}
	return p.ID, nil
}
