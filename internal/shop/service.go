package shop

import (
	"context"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/dedup"
	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/models"

	"go.uber.org/zap"
)

const (
	msgInvalidMember  = "invalid memberId"
	msgInvalidRequest = "productIds must be a non-empty list"
	msgInvalidProduct = "productIds contains an unknown product"
	msgDuplicate      = "identical purchase request submitted too quickly"
	msgPurchaseFailed = "purchase failed"
	msgListingFailed  = "failed to load members and products"
)

type PurchaseResult struct {
	Members  []models.Member  `json:"members"`
	Products []models.Product `json:"products"`
}

type Service struct {
	repo  Repository
	dedup dedup.Store
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo Repository, store dedup.Store, c clock.Clock, log *zap.Logger) *Service {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, dedup: store, clock: c, log: log}
}

func (s *Service) ListMembers(ctx context.Context) ([]models.Member, error) {
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load members", err)
	}
	return members, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load products", err)
	}
	return products, nil
}

// Purchase records one Purchase row per entry of productIDs (repeats included,
// caller order kept) and lowers each product's stock by one, all or nothing.
// An identical (member, products) request inside the dedup window is rejected
// with KindDuplicateRequest. A failed commit releases the mark so the client
// can retry.
func (s *Service) Purchase(ctx context.Context, memberID uint, productIDs []uint) (*PurchaseResult, error) {
	log := s.log.With(zap.Uint("member_id", memberID), zap.Uints("product_ids", productIDs))

	memberName, found, err := s.repo.MemberName(ctx, memberID)
	if err != nil {
		metrics.RecordPurchase("failed", 0)
		log.Error("member lookup failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindTransactionFailure, msgPurchaseFailed, err)
	}
	if !found {
		metrics.RecordPurchase("rejected", 0)
		return nil, apperr.New(apperr.KindInvalidMember, msgInvalidMember)
	}

	if len(productIDs) == 0 {
		metrics.RecordPurchase("rejected", 0)
		return nil, apperr.New(apperr.KindInvalidRequest, msgInvalidRequest)
	}
	for _, pid := range productIDs {
		_, found, err := s.repo.ProductName(ctx, pid)
		if err != nil {
			metrics.RecordPurchase("failed", 0)
			log.Error("product lookup failed", zap.Uint("product_id", pid), zap.Error(err))
			return nil, apperr.Wrap(apperr.KindTransactionFailure, msgPurchaseFailed, err)
		}
		if !found {
			metrics.RecordPurchase("rejected", 0)
			return nil, apperr.New(apperr.KindInvalidProduct, msgInvalidProduct)
		}
	}

	key := dedup.MakeKey(memberID, productIDs)
	if err := s.checkAndMark(ctx, key); err != nil {
		if apperr.Is(err, apperr.KindDuplicateRequest) {
			metrics.RecordPurchase("duplicate", 0)
			log.Info("duplicate purchase rejected", zap.String("dedup_key", key))
		} else {
			metrics.RecordPurchase("failed", 0)
			log.Error("dedup check failed", zap.Error(err))
		}
		return nil, err
	}

	ts := clock.NowString(s.clock)
	err = s.repo.WithinTx(ctx, func(tx TxRepository) error {
		for _, pid := range productIDs {
			productName, found, err := tx.ProductName(pid)
			if err != nil {
				return err
			}
			if !found {
				return apperr.New(apperr.KindInvalidProduct, msgInvalidProduct)
			}
			p := &models.Purchase{
				MemberID:    memberID,
				MemberName:  memberName,
				ProductID:   pid,
				ProductName: productName,
				Timestamp:   ts,
			}
			if err := tx.InsertPurchase(p); err != nil {
				return err
			}
			if err := tx.DecrementStockClamped(pid); err != nil {
				return err
			}
		}
		clamped, err := tx.ClampNegativeStock()
		if err != nil {
			return err
		}
		if clamped > 0 {
			log.Warn("negative stock reset to zero", zap.Int64("rows", clamped))
		}
		return nil
	})
	if err != nil {
		if relErr := s.dedup.Release(context.WithoutCancel(ctx), key); relErr != nil {
			log.Error("dedup release failed", zap.String("dedup_key", key), zap.Error(relErr))
		}
		metrics.RecordPurchase("failed", 0)
		log.Error("purchase commit failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindTransactionFailure, msgPurchaseFailed, err)
	}

	metrics.RecordPurchase("committed", len(productIDs))
	log.Info("purchase committed", zap.Int("items", len(productIDs)), zap.String("timestamp", ts))

	// Commit tamamlandı; listeleme hatası mark'ı bırakmaz, aksi halde tekrar gönderim çift kayıt olur
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgListingFailed, err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgListingFailed, err)
	}
	return &PurchaseResult{Members: members, Products: products}, nil
}

func (s *Service) checkAndMark(ctx context.Context, key string) error {
	// kontrol ve işaretleme store içinde tek adım; paylaşılan store'da da iki istek birden kazanamaz
	marked, err := s.dedup.TryMark(ctx, key, s.clock.Now())
	if err != nil {
		return apperr.Wrap(apperr.KindTransactionFailure, msgPurchaseFailed, err)
	}
	if !marked {
		return apperr.New(apperr.KindDuplicateRequest, msgDuplicate)
	}
	return nil
}
