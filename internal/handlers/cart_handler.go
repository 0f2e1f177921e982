package handlers

import (
	"log"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated customer's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes. router must already require
// authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:product_id", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:product_id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

// HandleGetCart returns the customer's cart, creating it on first access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.Get(customerID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return errorJSON(c, err, "Could not retrieve cart")
	}
	return c.JSON(fiber.Map{
		"cart":        cart,
		"total_price": cart.TotalPrice(),
	})
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds quantity of a product to the cart, incrementing any
// existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var payload cartItemRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if payload.ProductID == "" || payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and a quantity of at least 1 are required",
		})
	}

	item, err := h.service.AddOrIncrement(customerID(c), payload.ProductID, payload.Quantity)
	if err != nil {
		log.Printf("Error adding cart item: %v", err)
		return errorJSON(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleSetQuantity replaces the quantity of a cart line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be at least 1",
		})
	}

	item, err := h.service.SetQuantity(customerID(c), c.Params("product_id"), payload.Quantity)
	if err != nil {
		log.Printf("Error setting cart item quantity: %v", err)
		return errorJSON(c, err, "Could not update cart item")
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes one line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.Remove(customerID(c), c.Params("product_id")); err != nil {
		log.Printf("Error removing cart item: %v", err)
		return errorJSON(c, err, "Could not remove cart item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(customerID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return errorJSON(c, err, "Could not clear cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
