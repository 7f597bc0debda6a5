package http

import (
	"errors"
	"strconv"

	auctiondomain "github.com/bidworks/gavel/internal/auction/domain"
	"github.com/bidworks/gavel/internal/order/application"
	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/bidworks/gavel/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// OrderHandler exposes the order module over HTTP. Caller identity is the
// X-User-ID header; authentication itself lives outside this service.
type OrderHandler struct {
	orderService application.OrderService
}

func NewOrderHandler(orderService application.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/auctions/:id/order", h.ensureOrder)
	app.Get("/orders", h.listOrders)
	app.Get("/orders/:id", h.getOrder)
	app.Post("/orders/:id/payment", h.submitPaymentDetails)
	app.Post("/orders/:id/shipment", h.confirmPaymentAndShip)
	app.Post("/orders/:id/delivery", h.confirmDelivery)
	app.Post("/orders/:id/cancel", h.cancelOrder)
	app.Post("/orders/:id/rating", h.rateOrder)
	app.Post("/orders/:id/chat", h.postChatMessage)
	app.Get("/orders/:id/chat", h.listChat)
}

// ensureOrder materializes the order for a closed auction. Idempotent: a
// repeat call returns the existing order.
func (h *OrderHandler) ensureOrder(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	order, err := h.orderService.EnsureOrder(c.Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) listOrders(c *fiber.Ctx) error {
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	orders, err := h.orderService.ListOrdersByUser(c.Context(), callerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) getOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	order, err := h.orderService.GetOrder(c.Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	if !order.IsParticipant(callerID) {
		return writeError(c, domain.ErrOrderForbidden)
	}
	return c.JSON(order)
}

func (h *OrderHandler) submitPaymentDetails(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		PaymentMethod   string `json:"payment_method"`
		ShippingAddress string `json:"shipping_address"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	order, err := h.orderService.SubmitPaymentDetails(c.Context(), orderID, callerID, body.PaymentMethod, body.ShippingAddress)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) confirmPaymentAndShip(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Carrier      string `json:"carrier"`
		TrackingCode string `json:"tracking_code"`
		Note         string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "invalid request body")
	}

	order, err := h.orderService.ConfirmPaymentAndShip(c.Context(), orderID, callerID, body.Carrier, body.TrackingCode, body.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) confirmDelivery(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	order, err := h.orderService.ConfirmDelivery(c.Context(), orderID, callerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) cancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "invalid request body")
	}

	order, err := h.orderService.CancelOrder(c.Context(), orderID, callerID, body.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) rateOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Score int `json:"score"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.orderService.RateOrder(c.Context(), orderID, callerID, body.Score); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) postChatMessage(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	message, err := h.orderService.PostChatMessage(c.Context(), orderID, callerID, body.Body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *OrderHandler) listChat(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return badRequest(c, "invalid limit")
		}
	}

	messages, err := h.orderService.ListChat(c.Context(), orderID, callerID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Get("X-User-ID"))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// writeError maps domain sentinels to HTTP statuses; everything unrecognized
// is a 500. EnsureOrder can surface auction sentinels too.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, auctiondomain.ErrAuctionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrMissingPaymentDetails),
		errors.Is(err, domain.ErrInvalidRatingScore),
		errors.Is(err, domain.ErrEmptyChatMessage):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrOrderInvalidState),
		errors.Is(err, domain.ErrAuctionStillOpen),
		errors.Is(err, domain.ErrNoWinningBid):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrOrderForbidden):
		status = fiber.StatusForbidden
	default:
		log.Error("unhandled error in order handler", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
