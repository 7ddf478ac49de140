package zap

import (
	"context"
	"time"

	"github.com/fwojciec/castindex"
	"go.uber.org/zap"
)

// Ensure LoggingIndexStore implements castindex.IndexStore.
var _ castindex.IndexStore = (*LoggingIndexStore)(nil)

// LoggingIndexStore wraps an IndexStore with logging of saves and loads.
type LoggingIndexStore struct {
	next   castindex.IndexStore
	logger *zap.Logger
}

// NewLoggingIndexStore creates a new LoggingIndexStore.
func NewLoggingIndexStore(next castindex.IndexStore, logger *zap.Logger) *LoggingIndexStore {
	return &LoggingIndexStore{next: next, logger: logger}
}

func (s *LoggingIndexStore) SaveIndex(ctx context.Context, idx castindex.Index) (err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("save index failed", zap.Error(err))
			return
		}
		s.logger.Info("index saved",
			zap.Int("words", len(idx)),
			zap.Duration("duration", time.Since(begin)),
		)
	}(time.Now())

	return s.next.SaveIndex(ctx, idx)
}

func (s *LoggingIndexStore) LoadIndex(ctx context.Context) (idx castindex.Index, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("load index failed",
				zap.String("code", castindex.ErrorCode(err)),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("index loaded",
			zap.Int("words", len(idx)),
			zap.Duration("duration", time.Since(begin)),
		)
	}(time.Now())

	return s.next.LoadIndex(ctx)
}
