package discovery

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"discovery-sync/core/logger"
	"discovery-sync/feature/discovery/journal"
)

// Handler exposes the discovery feature over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the discovery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/discovery")
	group.Post("/sync", h.HandleSync)
	group.Post("/validate", h.HandleValidate)
	group.Get("/runs", h.HandleRuns)
}

// HandleSync triggers a synchronization run and returns its result.
// @Summary Run Synchronization
// @Description Runs a full sites/software/assets synchronization for the configured account.
// @Tags discovery
// @Produce json
// @Success 200 {object} sync.Result "Run result"
// @Failure 401 {object} map[string]string "Integration suspended"
// @Failure 409 {object} map[string]string "Run already in progress"
// @Router /discovery/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.RunSync(c.Context())
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		l.Error("Synchronization run failed", zap.Error(err))
		status := StatusFor(err)
		code := fiber.StatusInternalServerError
		if status == journal.StatusSuspendedSource || status == journal.StatusSuspendedTarget {
			code = fiber.StatusUnauthorized
		}
		return c.Status(code).JSON(fiber.Map{
			"error":  err.Error(),
			"status": status,
			"result": res,
		})
	}

	return c.JSON(res)
}

// HandleValidate checks source and catalog access.
// @Summary Validate Credentials
// @Description Verifies that the source credentials and catalog token grant access.
// @Tags discovery
// @Produce json
// @Success 204 "Credentials accepted"
// @Failure 401 {object} map[string]string "Credentials rejected"
// @Router /discovery/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Validate(c.Context()); err != nil {
		l.Error("Credential validation failed", zap.Error(err))
		code := fiber.StatusBadGateway
		if StatusFor(err) != journal.StatusFailed {
			code = fiber.StatusUnauthorized
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRuns lists recent journal entries.
// @Summary List Runs
// @Description Lists the most recent synchronization runs, newest first.
// @Tags discovery
// @Produce json
// @Param limit query int false "Maximum entries to return (default 20)"
// @Success 200 {array} journal.Run "Runs"
// @Router /discovery/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.Runs(c.Context(), c.QueryInt("limit"))
	if err != nil {
		l.Error("Run listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	return c.JSON(runs)
}
