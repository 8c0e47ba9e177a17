package restock

import (
	"context"
	"time"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/metrics"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Days7 is the fixed short window used for trend detection.
const Days7 = 7

// ProductSales is one product with its purchase counts inside both windows.
type ProductSales struct {
	ID         uint    `gorm:"column:id"`
	Name       string  `gorm:"column:name"`
	Barcode    *string `gorm:"column:barcode"`
	Price      int     `gorm:"column:price"`
	Stock      int     `gorm:"column:stock"`
	Sold7d     int     `gorm:"column:sold_7d"`
	SoldNd     int     `gorm:"column:sold_nd"`
	LastSoldAt string  `gorm:"column:last_sold_at"`
}

type SalesSource interface {
	// SalesWindow lists every product, including those never sold, with counts
	// of purchases at or after each cutoff.
	SalesWindow(ctx context.Context, cutoff7, cutoffN string) ([]ProductSales, error)
}

type GormSalesSource struct {
	db *gorm.DB
}

func NewGormSalesSource(db *gorm.DB) *GormSalesSource {
	return &GormSalesSource{db: db}
}

func (s *GormSalesSource) SalesWindow(ctx context.Context, cutoff7, cutoffN string) ([]ProductSales, error) {
	defer metrics.TrackDBOperation("sales_window")(time.Now())

	var rows []ProductSales
	err := s.db.WithContext(ctx).
		Table("products AS pr").
		Select(`pr.id, pr.name, pr.barcode, pr.price, pr.stock,
			COALESCE(SUM(CASE WHEN p.timestamp >= ? THEN 1 ELSE 0 END), 0) AS sold_7d,
			COALESCE(SUM(CASE WHEN p.timestamp >= ? THEN 1 ELSE 0 END), 0) AS sold_nd,
			COALESCE(MAX(p.timestamp), '') AS last_sold_at`, cutoff7, cutoffN).
		Joins("LEFT JOIN purchases p ON p.product_id = pr.id").
		Group("pr.id, pr.name, pr.barcode, pr.price, pr.stock").
		Order("pr.id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "sales window query")
	}
	return rows, nil
}

type Aggregator struct {
	src   SalesSource
	clock clock.Clock
}

func NewAggregator(src SalesSource, c clock.Clock) *Aggregator {
	if c == nil {
		c = clock.System{}
	}
	return &Aggregator{src: src, clock: c}
}

// Aggregate counts sales over the last Days7 days and the last `days` days,
// both measured back from the shop's current civil time.
func (a *Aggregator) Aggregate(ctx context.Context, days int) ([]ProductSales, error) {
	cutoff7 := clock.DaysAgo(a.clock, Days7)
	cutoffN := clock.DaysAgo(a.clock, days)

	rows, err := a.src.SalesWindow(ctx, cutoff7, cutoffN)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAggregationFailure, "aggregation failed", err)
	}
	return rows, nil
}
