package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/store"
)

// ServiceRepository reads and writes the whole service list.
type ServiceRepository struct {
	slot   store.Slot
	source store.Source
	logger *zerolog.Logger
}

// NewServiceRepository creates a repository over slot, bootstrapping from source.
func NewServiceRepository(slot store.Slot, source store.Source, logger *zerolog.Logger) *ServiceRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ServiceRepository{
		slot:   slot,
		source: source,
		logger: logger,
	}
}

// Load returns the persisted list, or fetches, persists and returns the
// bootstrap list when nothing is persisted yet.
//
// A slot holding bytes that do not parse is an error; it is not replaced
// by the bootstrap copy.
func (r *ServiceRepository) Load(ctx context.Context) (model.Services, error) {
	services, ok, err := r.Stored(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return services, nil
	}

	data, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	services, err = model.DecodeServices(data)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parsing services: %w", err)
	}

	if err := r.Persist(ctx, services); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("count", len(services)).
		Msg("bootstrapped services into storage")

	return services, nil
}

// Stored returns the persisted copy only. The boolean is false when the
// slot is empty or holds JSON null.
func (r *ServiceRepository) Stored(ctx context.Context) (model.Services, bool, error) {
	data, err := r.slot.Get(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading stored services: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}

	services, err := model.DecodeServices(trimmed)
	if err != nil {
		return nil, false, fmt.Errorf("parsing stored services: %w", err)
	}
	return services, true, nil
}

// Persist overwrites the slot with the full list.
func (r *ServiceRepository) Persist(ctx context.Context, services model.Services) error {
	data, err := services.Encode()
	if err != nil {
		return fmt.Errorf("encoding services: %w", err)
	}
	if err := r.slot.Put(ctx, data); err != nil {
		return fmt.Errorf("persisting services: %w", err)
	}
	return nil
}

// Reset clears the persisted copy, so the next Load bootstraps again.
func (r *ServiceRepository) Reset(ctx context.Context) error {
	return r.slot.Clear(ctx)
}
