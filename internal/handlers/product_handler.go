package handlers

import (
	"fmt"
	"log"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
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

// RegisterRoutes registers public browsing routes on router and catalog
// management routes on staff.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, staff fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleSearch)
	productRoutes.Get("/featured", h.HandleFeatured)
	productRoutes.Get("/:slug", h.HandleGetBySlug)
	router.Get("/categories", h.HandleCategories)

	staffProducts := staff.Group("/products")
	staffProducts.Post("/", h.HandleCreate)
	staffProducts.Put("/:id", h.HandleUpdate)
	staffProducts.Delete("/:id", h.HandleDelete)
	staff.Post("/categories", h.HandleCreateCategory)
}

// HandleSearch lists products with search, sorting and pagination.
// Query params: q, category, sort (oldest), price_sort (cheap|expensive),
// page, page_size.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	opts := repositories.ProductSearch{
		Query:      c.Query("q"),
		CategoryID: c.Query("category"),
		Sort:       c.Query("sort"),
		PriceSort:  c.Query("price_sort"),
		ActiveOnly: true,
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 20),
	}

	products, total, err := h.service.Search(opts)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return errorJSON(c, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{
		"count":   total,
		"page":    opts.Page,
		"results": products,
	})
}

// HandleFeatured lists the featured products.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	featured, err := h.service.Featured()
	if err != nil {
		log.Printf("Error getting featured products: %v", err)
		return errorJSON(c, err, "Could not retrieve featured products")
	}
	return c.JSON(featured)
}

// HandleGetBySlug retrieves a single product with its rating summary.
func (h *ProductHandler) HandleGetBySlug(c *fiber.Ctx) error {
	product, ratings, err := h.service.GetBySlug(c.Params("slug"))
	if err != nil {
		log.Printf("Error getting product %s: %v", c.Params("slug"), err)
		return errorJSON(c, err, "Could not retrieve product")
	}
	return c.JSON(fiber.Map{
		"product":        product,
		"average_rating": ratings.Average,
		"review_count":   ratings.Count,
	})
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if msgs := h.validateProduct(&product); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  msgs,
		})
	}
	if err := h.service.Create(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return errorJSON(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")
	if msgs := h.validateProduct(&product); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  msgs,
		})
	}
	if err := h.service.Update(&product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return errorJSON(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDelete deletes a product unless orders still reference it.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCategories lists all categories.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return errorJSON(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a new category.
func (h *ProductHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if category.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Category name is required",
		})
	}
	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return errorJSON(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// validateProduct returns per-field messages, or nil when the product is
// valid.
func (h *ProductHandler) validateProduct(product *models.Product) map[string]string {
	err := h.validate.Struct(product)
	if err == nil {
		return nil
	}
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
