package restock

import (
	"context"
	"time"

	"labbooth-backend/internal/metrics"

	"go.uber.org/zap"
)

type SuggestionService struct {
	agg *Aggregator
	log *zap.Logger
}

func NewSuggestionService(agg *Aggregator, log *zap.Logger) *SuggestionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionService{agg: agg, log: log}
}

func (s *SuggestionService) Suggestions(ctx context.Context, p Params) (*Report, error) {
	start := time.Now()
	p = p.normalize()

	rows, err := s.agg.Aggregate(ctx, p.Days)
	if err != nil {
		s.log.Error("sales aggregation failed", zap.Int("days", p.Days), zap.Error(err))
		return nil, err
	}

	report := Suggest(rows, p)
	metrics.ObserveSuggestion(time.Since(start))
	s.log.Debug("restock suggestions computed",
		zap.Int("products", len(rows)),
		zap.Int("suggestions", len(report.Suggestions)))
	return &report, nil
}
