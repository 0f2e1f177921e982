package handlers

import (
	"log"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// RegisterRoutes registers the review routes. router must already require
// authentication; public takes the unauthenticated product listing.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, public fiber.Router) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Post("/", h.HandleCreate)
	reviewRoutes.Get("/", h.HandleListMine)

	public.Get("/products/:product_id/reviews", h.HandleListByProduct)
}

// HandleCreate writes a review for a purchased order item.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var payload struct {
		OrderItemID string `json:"order_item_id"`
		Rating      int    `json:"rating"`
		Comment     string `json:"comment"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if payload.OrderItemID == "" || payload.Rating < 1 || payload.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "order_item_id and a rating between 1 and 5 are required",
		})
	}

	review, err := h.service.Create(customerID(c), payload.OrderItemID, payload.Rating, payload.Comment)
	if err != nil {
		log.Printf("Error creating review for order item %s: %v", payload.OrderItemID, err)
		return errorJSON(c, err, "Could not create review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleListMine lists the authenticated customer's reviews.
func (h *ReviewHandler) HandleListMine(c *fiber.Ctx) error {
	reviews, err := h.service.ListMine(customerID(c))
	if err != nil {
		log.Printf("Error listing reviews: %v", err)
		return errorJSON(c, err, "Could not retrieve reviews")
	}
	return c.JSON(reviews)
}

// HandleListByProduct lists the reviews written about a product.
func (h *ReviewHandler) HandleListByProduct(c *fiber.Ctx) error {
	reviews, err := h.service.ListByProduct(c.Params("product_id"))
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", c.Params("product_id"), err)
		return errorJSON(c, err, "Could not retrieve reviews")
	}
	return c.JSON(reviews)
}
