package handlers

import (
	"errors"
	"fmt"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Reads are public; mutations go through the identity middleware so an
// authenticated owner is available.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireUser fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:term", h.HandleGetProduct)
	productRoutes.Post("/", requireUser, h.HandleCreateProduct)
	productRoutes.Patch("/:id", requireUser, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", requireUser, h.HandleDeleteProduct)
}

// HandleListProducts returns a paginated window of the catalog.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	products, err := h.service.ListProducts(limit, offset)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by ID, slug, or title.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	term := c.Params("term")
	product, err := h.service.GetProductFlat(term)
	if err != nil {
		log.Printf("Error getting product by term %s: %v", term, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not retrieve product %s", term),
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authenticated user is required",
		})
	}

	var cmd services.CreateProductCommand
	if err := c.BodyParser(&cmd); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	product, err := h.service.CreateProduct(cmd, *owner)
	if err != nil {
		log.Printf("Error creating product %q: %v", cmd.Title, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update, optionally replacing
// the whole image set.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authenticated user is required",
		})
	}

	id := c.Params("id")
	var cmd services.UpdateProductCommand
	if err := c.BodyParser(&cmd); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	product, err := h.service.UpdateProduct(id, cmd, *owner)
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not update product %s", id),
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not delete product %s", id),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

// currentUser pulls the resolved identity out of the request context.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}

// statusFromError maps the catalog error taxonomy onto HTTP statuses.
// Internal errors are already opaque by the time they reach here.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// validationMessages turns validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}
