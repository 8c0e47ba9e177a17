// Package scheduler runs the periodic housekeeping jobs: expiring dedup marks
// and refreshing the product stock gauge.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/dedup"
	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const jobTimeout = 10 * time.Second

type Scheduler struct {
	cron  *cron.Cron
	db    *gorm.DB
	store dedup.Store
	clock clock.Clock
	log   *zap.Logger
}

func New(db *gorm.DB, store dedup.Store, c clock.Clock, log *zap.Logger) *Scheduler {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(clock.ShopZone)),
		db:    db,
		store: store,
		clock: c,
		log:   log,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	sweepSpec := fmt.Sprintf("@every %s", dedup.SweepInterval(s.store.Window()))
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return fmt.Errorf("dedup sweep job eklenemedi: %w", err)
	}
	if _, err := s.cron.AddFunc("@every 1m", s.runStockRefresh); err != nil {
		return fmt.Errorf("stok gauge job eklenemedi: %w", err)
	}

	s.runStockRefresh()
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("dedup_sweep", sweepSpec))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.SweepDedup(ctx); err != nil {
		s.log.Error("dedup sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) runStockRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.RefreshStockGauge(ctx); err != nil {
		s.log.Error("stock gauge refresh failed", zap.Error(err))
	}
}

// SweepDedup drops marks older than the dedup window.
func (s *Scheduler) SweepDedup(ctx context.Context) (int, error) {
	n, err := s.store.Sweep(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("dedup marks expired", zap.Int("count", n))
	}
	return n, nil
}

// RefreshStockGauge republishes the stock of every product.
func (s *Scheduler) RefreshStockGauge(ctx context.Context) (int, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Select("id", "name", "stock").Find(&products).Error; err != nil {
		return 0, fmt.Errorf("ürünler okunamadı: %w", err)
	}

	metrics.ResetProductStock()
	for _, p := range products {
		metrics.UpdateProductStock(fmt.Sprint(p.ID), p.Name, p.Stock)
	}
	return len(products), nil
}
