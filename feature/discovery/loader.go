package discovery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/journal"
	"discovery-sync/feature/discovery/sync"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the discovery feature.
func NewFeature(src sync.Source, cat catalog.Client, jrnl *journal.Journal, opts sync.Options, account string, logger *zap.Logger) *Feature {
	svc := NewService(src, cat, jrnl, opts, account, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the underlying service for non-HTTP callers (CLI).
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "discovery"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
