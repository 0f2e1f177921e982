package handlers

import (
	"errors"

	"lapak/internal/models"

	"github.com/gofiber/fiber/v2"
)

// customerID extracts the authenticated customer ID set by the JWT
// middleware.
func customerID(c *fiber.Ctx) string {
	id, _ := c.Locals("customer_id").(string)
	return id
}

// isStaff reports whether the authenticated user carries the staff flag.
func isStaff(c *fiber.Ctx) bool {
	staff, _ := c.Locals("is_staff").(bool)
	return staff
}

// statusForError maps domain errors onto HTTP status codes so every handler
// reports them the same way.
func statusForError(err error) int {
	var transitionErr *models.StateTransitionError
	var inventoryErr *models.InsufficientInventoryError
	var quantityErr *models.QuantityExceedsInventoryError

	switch {
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrCustomerNotFound),
		errors.Is(err, models.ErrOrderItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrReviewNotEligible),
		errors.As(err, &transitionErr),
		errors.As(err, &inventoryErr),
		errors.As(err, &quantityErr):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateReview),
		errors.Is(err, models.ErrProductInUse),
		errors.Is(err, models.ErrOrderStatusConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON writes the standard error envelope.
func errorJSON(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
