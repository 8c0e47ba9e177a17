package dedup

import (
	"context"
	"errors"
	"time"

	"labbooth-backend/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps marks in the dedup_marks table.
type GormStore struct {
	db     *gorm.DB
	window time.Duration
}

func NewGormStore(db *gorm.DB, window time.Duration) *GormStore {
	return &GormStore{db: db, window: normalizeWindow(window)}
}

func (s *GormStore) Window() time.Duration { return s.window }

func (s *GormStore) IsDuplicate(ctx context.Context, key string, now time.Time) (bool, error) {
	var mark models.DedupMark
	err := s.db.WithContext(ctx).First(&mark, "dedup_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrap(err, "dedup lookup")
	}
	return now.Sub(mark.MarkedAt) < s.window, nil
}

func (s *GormStore) Mark(ctx context.Context, key string, now time.Time) error {
	mark := models.DedupMark{Key: key, MarkedAt: now.UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"marked_at"}),
	}).Create(&mark).Error
	return pkgerrors.Wrap(err, "dedup mark")
}

// TryMark inserts the mark, or takes over an expired one, in a single
// statement so processes sharing the table cannot both win.
func (s *GormStore) TryMark(ctx context.Context, key string, now time.Time) (bool, error) {
	now = now.UTC()
	res := s.db.WithContext(ctx).Exec(
		`INSERT INTO dedup_marks (dedup_key, marked_at) VALUES (?, ?)
		ON CONFLICT (dedup_key) DO UPDATE SET marked_at = excluded.marked_at
		WHERE dedup_marks.marked_at <= ?`,
		key, now, now.Add(-s.window),
	)
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "dedup try mark")
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Release(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&models.DedupMark{}, "dedup_key = ?", key).Error
	return pkgerrors.Wrap(err, "dedup release")
}

func (s *GormStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Where("marked_at < ?", now.Add(-s.window).UTC()).
		Delete(&models.DedupMark{})
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "dedup sweep")
	}
	return int(res.RowsAffected), nil
}
