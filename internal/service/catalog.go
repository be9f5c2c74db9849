package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/catalog"
	"github.com/deppfellow/service-catalog/internal/lib/job"
	"github.com/deppfellow/service-catalog/internal/model"
)

// Repository is the store accessor the catalog service runs on.
type Repository interface {
	catalog.Store
	Load(ctx context.Context) (model.Services, error)
}

// Notifier receives one event per successful change.
type Notifier interface {
	NotifyCatalogChanged(ctx context.Context, payload job.CatalogChangedPayload) error
}

// CatalogService runs admin operations against the persisted list. Each
// operation loads, mutates and persists under one lock, so concurrent
// requests in this process never interleave.
type CatalogService struct {
	mu       sync.Mutex
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

// NewCatalogService creates the service. notifier may be nil.
func NewCatalogService(repo Repository, notifier Notifier) *CatalogService {
	return &CatalogService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// List returns the current list.
func (s *CatalogService) List(ctx context.Context) (model.Services, error) {
	return s.repo.Load(ctx)
}

// Get returns one service or a 404 error.
func (s *CatalogService) Get(ctx context.Context, id int) (model.Service, error) {
	services, err := s.repo.Load(ctx)
	if err != nil {
		return model.Service{}, err
	}

	found, ok := services.Find(id)
	if !ok {
		return model.Service{}, catalog.NotFound()
	}
	return found, nil
}

// Create adds a service from the prompted values.
func (s *CatalogService) Create(ctx context.Context, p catalog.Prompter) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.run(ctx, func(a *catalog.Admin) (model.Service, error) {
		return a.Create(ctx, p)
	})
	if err != nil {
		return model.Service{}, err
	}

	s.notify(ctx, job.ActionCreated, created)
	return created, nil
}

// Edit updates the service with id from the prompted values.
func (s *CatalogService) Edit(ctx context.Context, id int, p catalog.Prompter) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.run(ctx, func(a *catalog.Admin) (model.Service, error) {
		return a.Edit(ctx, id, p)
	})
	if err != nil {
		return model.Service{}, err
	}

	s.notify(ctx, job.ActionUpdated, updated)
	return updated, nil
}

// Delete removes the service with id once c confirms. It reports
// whether the service was removed.
func (s *CatalogService) Delete(ctx context.Context, id int, c catalog.Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}

	admin, err := catalog.NewAdmin(ctx, services, s.repo)
	if err != nil {
		return false, err
	}

	target, _ := admin.Services().Find(id)

	removed, err := admin.Delete(ctx, id, c)
	if err != nil || !removed {
		return false, err
	}

	s.notify(ctx, job.ActionDeleted, target)
	return true, nil
}

// run loads the list, starts an admin session on it and applies op.
func (s *CatalogService) run(ctx context.Context, op func(a *catalog.Admin) (model.Service, error)) (model.Service, error) {
	services, err := s.repo.Load(ctx)
	if err != nil {
		return model.Service{}, err
	}

	admin, err := catalog.NewAdmin(ctx, services, s.repo)
	if err != nil {
		return model.Service{}, err
	}
	return op(admin)
}

// notify is best effort: the change is already persisted, so a queue
// failure is logged and not returned.
func (s *CatalogService) notify(ctx context.Context, action string, svc model.Service) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.NotifyCatalogChanged(ctx, job.CatalogChangedPayload{
		Action:    action,
		ServiceID: svc.ID,
		Name:      svc.Name,
		At:        s.now(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("action", action).
			Int("service_id", svc.ID).
			Msg("failed to enqueue catalog change")
	}
}
