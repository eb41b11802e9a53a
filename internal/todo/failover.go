package todo

import (
	"context"
	"sync/atomic"
	"time"

	"innkeep/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore routes to the primary store until it errors, then serves
// from the fallback and probes the primary again after a minute.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary todo store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck = time.Now()
}

func (s *FailoverStore) shouldProbe() bool {
	return s.isDown.Load() && time.Since(s.lastCheck) > time.Minute
}

func (s *FailoverStore) Create(ctx context.Context, todo *models.Todo) error {
	if !s.isDown.Load() || s.shouldProbe() {
		err := s.primary.Create(ctx, todo)
		if err == nil {
			s.isDown.Store(false)
			return nil
		}
		s.markDown(err)
	}
	return s.fallback.Create(ctx, todo)
}

func (s *FailoverStore) List(ctx context.Context, skip, limit int) ([]models.Todo, error) {
	if !s.isDown.Load() || s.shouldProbe() {
		todos, err := s.primary.List(ctx, skip, limit)
		if err == nil {
			s.isDown.Store(false)
			return todos, nil
		}
		s.markDown(err)
	}
	return s.fallback.List(ctx, skip, limit)
}

func (s *FailoverStore) Get(ctx context.Context, id int64) (*models.Todo, error) {
	if !s.isDown.Load() || s.shouldProbe() {
		todo, err := s.primary.Get(ctx, id)
		if err == nil || err == ErrNotFound {
			s.isDown.Store(false)
			return todo, err
		}
		s.markDown(err)
	}
	return s.fallback.Get(ctx, id)
}

func (s *FailoverStore) Update(ctx context.Context, id int64, todo *models.Todo) error {
	if !s.isDown.Load() || s.shouldProbe() {
		err := s.primary.Update(ctx, id, todo)
		if err == nil || err == ErrNotFound {
			s.isDown.Store(false)
			return err
		}
		s.markDown(err)
	}
	return s.fallback.Update(ctx, id, todo)
}

func (s *FailoverStore) Delete(ctx context.Context, id int64) error {
	if !s.isDown.Load() || s.shouldProbe() {
		err := s.primary.Delete(ctx, id)
		if err == nil || err == ErrNotFound {
			s.isDown.Store(false)
			return err
		}
		s.markDown(err)
	}
	return s.fallback.Delete(ctx, id)
}
