package handlers

import (
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes. router must already require
// authentication; staff must additionally require the staff flag.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, staff fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/payment", h.HandleCompletePayment)
	orderRoutes.Post("/:id/cancel", h.HandleCancel)

	staffOrders := staff.Group("/orders")
	staffOrders.Post("/:id/ship", h.HandleShip)
	staffOrders.Post("/:id/complete", h.HandleComplete)
}

// HandleCheckout places an order from the customer's cart and returns the
// minted order number.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(customerID(c))
	if err != nil {
		log.Printf("Checkout failed for customer %s: %v", customerID(c), err)
		return errorJSON(c, err, "Could not place order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_number": order.OrderNumber,
	})
}

// HandleListOrders lists orders. Customers see their own; staff see all.
// Supports status, order_time_min/order_time_max (RFC 3339) and page/page_size.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status:   models.OrderStatus(c.Query("status")),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if min := c.Query("order_time_min"); min != "" {
		t, err := time.Parse(time.RFC3339, min)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "order_time_min must be RFC 3339",
			})
		}
		filter.CreatedAfter = t
	}
	if max := c.Query("order_time_max"); max != "" {
		t, err := time.Parse(time.RFC3339, max)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "order_time_max must be RFC 3339",
			})
		}
		filter.CreatedBefore = t
	}

	orders, err := h.service.ListOrders(filter, customerID(c), isStaff(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return errorJSON(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"), customerID(c), isStaff(c))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleCompletePayment marks the order as paid. Invoked once the payment
// gateway confirms the payment.
func (h *OrderHandler) HandleCompletePayment(c *fiber.Ctx) error {
	if err := h.ensureOwnOrder(c); err != nil {
		return errorJSON(c, err, "Could not update order")
	}
	order, err := h.service.CompletePayment(c.Params("id"))
	if err != nil {
		log.Printf("Error completing payment for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not complete payment")
	}
	return c.JSON(fiber.Map{
		"message": "Payment completed successfully",
		"status":  order.Status,
	})
}

// HandleShip records the shipping reference and marks the order shipped.
func (h *OrderHandler) HandleShip(c *fiber.Ctx) error {
	var payload struct {
		ShippingReference string `json:"shipping_reference"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.Ship(c.Params("id"), payload.ShippingReference)
	if err != nil {
		log.Printf("Error shipping order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not ship order")
	}
	return c.JSON(fiber.Map{
		"message":            "Order shipped successfully",
		"status":             order.Status,
		"shipping_reference": order.ShippingReference,
	})
}

// HandleComplete marks a shipped order as completed.
func (h *OrderHandler) HandleComplete(c *fiber.Ctx) error {
	order, err := h.service.Complete(c.Params("id"))
	if err != nil {
		log.Printf("Error completing order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not complete order")
	}
	return c.JSON(fiber.Map{
		"message": "Order completed successfully",
		"status":  order.Status,
	})
}

// HandleCancel cancels an order that has not shipped yet and restores its
// reserved inventory.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	if err := h.ensureOwnOrder(c); err != nil {
		return errorJSON(c, err, "Could not cancel order")
	}
	order, err := h.service.Cancel(c.Params("id"))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not cancel order")
	}
	return c.JSON(fiber.Map{
		"message": "Order has been cancelled successfully",
		"status":  order.Status,
	})
}

// ensureOwnOrder rejects customer actions on orders that belong to someone
// else. Staff may act on any order.
func (h *OrderHandler) ensureOwnOrder(c *fiber.Ctx) error {
	_, err := h.service.GetOrder(c.Params("id"), customerID(c), isStaff(c))
	return err
}
