package handlers

import (
	"context"
	"errors"
	"net/http"

	"farmmart/internal/common"
	"farmmart/internal/models"
	"farmmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for checkout and the order lifecycle.
type OrderHandlers struct {
	checkoutService services.CheckoutService
	orderService    services.OrderService
}

func NewOrderHandlers(checkoutService services.CheckoutService, orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// PlaceOrder handles POST /orders (buyer only). The request carries the cart;
// prices come from the catalog, never from the client.
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	cart := make([]models.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, "product_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		cart = append(cart, models.CartLine{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := h.checkoutService.PlaceOrder(ctx, buyerID, cart)
	if err != nil {
		return mapOrderError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order": order,
	})
}

// GetOrders handles GET /orders and lists the caller's own orders.
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	limit, offset := paginationParams(c)

	orders, err := h.orderService.ListBuyerOrders(ctx, buyerID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /orders/:id. Buyers may only read their own orders.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, lines, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}
	if err := h.authorizeBuyer(c, order.BuyerID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order": order,
		"lines": lines,
	})
}

// CancelOrder handles POST /orders/:id/cancel. Only the buyer who placed the
// order may cancel it, and only while it is still pending.
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, _, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}
	if err := h.authorizeBuyer(c, order.BuyerID); err != nil {
		return err
	}

	if err := h.orderService.Cancel(ctx, orderID); err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order cancelled successfully",
	})
}

// ProcessOrder handles POST /orders/:id/process (farmer only).
func (h *OrderHandlers) ProcessOrder(c echo.Context) error {
	return h.transition(c, h.orderService.Process, "Order moved to processing")
}

// CompleteOrder handles POST /orders/:id/complete (farmer only).
func (h *OrderHandlers) CompleteOrder(c echo.Context) error {
	return h.transition(c, h.orderService.Complete, "Order completed")
}

func (h *OrderHandlers) transition(c echo.Context, fn func(ctx context.Context, id uuid.UUID) error, message string) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := fn(c.Request().Context(), orderID); err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": message,
	})
}

// authorizeBuyer rejects buyers touching somebody else's order. Farmers pass
// through; their routes are already gated by role middleware.
func (h *OrderHandlers) authorizeBuyer(c echo.Context, ownerID uuid.UUID) error {
	ctx := c.Request().Context()
	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleBuyer {
		return nil
	}
	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok || callerID != ownerID {
		return common.SendForbidden(c, "Order belongs to another buyer")
	}
	return nil
}

// mapOrderError translates the checkout and lifecycle error taxonomy to HTTP.
func mapOrderError(c echo.Context, err error) error {
	var validationErr *common.ValidationError
	var stockErr *common.InsufficientStockError
	var transitionErr *common.InvalidTransitionError
	switch {
	case errors.As(err, &validationErr):
		return common.SendValidationError(c, validationErr.Field, validationErr.Message)
	case errors.Is(err, common.ErrEmptyCart):
		return common.SendClientError(c, "Cart must contain at least one item")
	case errors.As(err, &stockErr):
		return common.SendConflict(c, stockErr.Error())
	case errors.As(err, &transitionErr):
		return common.SendConflict(c, transitionErr.Error())
	case errors.Is(err, common.ErrProductNotFound):
		return common.SendNotFound(c, "Product not found")
	case errors.Is(err, common.ErrOrderNotFound):
		return common.SendNotFound(c, "Order not found")
	default:
		return common.SendServerError(c, "Failed to process order")
	}
}
