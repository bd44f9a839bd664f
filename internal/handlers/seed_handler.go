package handlers

import (
	"log"

	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SeedHandler exposes the catalog seed endpoint. The seed wipes the
// whole catalog before inserting its dataset, so the route should only
// be mounted in development and test environments.
type SeedHandler struct {
	service *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(service *services.SeedService) *SeedHandler {
	return &SeedHandler{
		service: service,
	}
}

// RegisterRoutes registers the seed route with the Fiber app.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/seed", h.HandleRunSeed)
}

// HandleRunSeed rebuilds the catalog from the built-in dataset.
func (h *SeedHandler) HandleRunSeed(c *fiber.Ctx) error {
	created, err := h.service.Run()
	if err != nil {
		log.Printf("Error running catalog seed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not seed catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Seed executed",
		"created": created,
	})
}
