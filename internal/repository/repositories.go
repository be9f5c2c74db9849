// Package repository is the store accessor: it loads the service list,
// preferring the persisted copy over the one-time bootstrap source, and
// mirrors every mutation back into the slot.
package repository

import (
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/store"
)

// Repositories groups all repository instances.
type Repositories struct {
	Services *ServiceRepository
}

// NewRepositories builds the repositories on top of the server's slot.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Services: NewServiceRepository(s.Slot, store.NewSource(s.Config.Store.Bootstrap), s.Logger),
	}
}
