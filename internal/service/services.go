package service

import (
	"fmt"

	"github.com/deppfellow/service-catalog/internal/page"
	"github.com/deppfellow/service-catalog/internal/repository"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/view"
)

// Services groups all service instances.
type Services struct {
	Catalog *CatalogService

	// Pages renders the HTML pages from a fresh load per request.
	Pages *page.Dispatcher
}

// NewService builds the services on top of the repositories. Change
// notifications are only sent when the server has a job service.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Catalog: NewCatalogService(repos.Services, notifier),
		Pages:   page.NewDispatcher(repos.Services, renderer),
	}, nil
}
