package reload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"sink-bom-backend/internal/catalog"
)

// Recorder receives the outcome of every reload attempt.
type Recorder interface {
	RecordReload(err error, snap *catalog.Snapshot)
}

type nopRecorder struct{}

func (nopRecorder) RecordReload(error, *catalog.Snapshot) {}

// Service rebuilds catalog snapshots and swaps them into a holder. A failed rebuild keeps
// the snapshot that is already being served.
type Service struct {
	holder   *catalog.Holder
	loader   Loader
	interval time.Duration
	logger   *zap.Logger
	recorder Recorder

	mu sync.Mutex
}

// NewService creates a reload service. A non-positive interval disables the periodic loop.
func NewService(holder *catalog.Holder, loader Loader, interval time.Duration, logger *zap.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		holder:   holder,
		loader:   loader,
		interval: interval,
		logger:   logger.With(zap.String("catalog_source", loader.Source())),
		recorder: recorder,
	}
}

// Run reloads the catalog on every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("periodic catalog reload is disabled")
		return
	}
	s.logger.Info("starting catalog reload service", zap.Duration("interval", s.interval))

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("catalog reload service shutting down")
			return
		case <-timer.C:
			if _, err := s.ReloadOnce(ctx); err != nil {
				s.logger.Warn("catalog reload failed, keeping current snapshot", zap.Error(err))
			}
			timer.Reset(s.interval)
		}
	}
}

// ReloadOnce builds a snapshot from the loader and installs it. Concurrent calls are
// serialized; in-flight resolutions keep the snapshot they started with.
func (s *Service) ReloadOnce(ctx context.Context) (*catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	def, err := s.loader.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load catalog: %w", err)
		s.recorder.RecordReload(err, nil)
		return nil, err
	}

	snap, err := catalog.New(def)
	if err != nil {
		s.recorder.RecordReload(err, nil)
		return nil, err
	}

	old := s.holder.Swap(snap)
	s.recorder.RecordReload(nil, snap)

	stats := snap.Stats()
	fields := []zap.Field{
		zap.String("version", stats.Version),
		zap.Int("parts", stats.Parts),
		zap.Int("assemblies", stats.Assemblies),
		zap.Int("components", stats.Components),
		zap.Duration("elapsed", time.Since(start)),
	}
	if old != nil {
		fields = append(fields, zap.String("previous_version", old.Version()))
	}
	s.logger.Info("catalog snapshot installed", fields...)
	return snap, nil
}
