package http

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/auction/application"
	"github.com/bidworks/gavel/internal/auction/domain"
	wsinfra "github.com/bidworks/gavel/internal/auction/infra/websocket"
	"github.com/bidworks/gavel/internal/shared/logger"
	sharedws "github.com/bidworks/gavel/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionHandler exposes the auction module over HTTP. Caller identity is the
// X-User-ID header; authentication itself lives outside this service.
type AuctionHandler struct {
	auctionService application.AuctionService
	wsHandler      *wsinfra.AuctionWSHandler
	hub            *sharedws.Hub
}

func NewAuctionHandler(auctionService application.AuctionService, wsHandler *wsinfra.AuctionWSHandler, hub *sharedws.Hub) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		wsHandler:      wsHandler,
		hub:            hub,
	}
}

func (h *AuctionHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/auctions/:id", h.getAuction)
	app.Get("/auctions/:id/bids", h.listBids)
	app.Post("/auctions/:id/bids", h.placeBid)
	app.Put("/auctions/:id/proxy", h.setProxyCeiling)
	app.Delete("/auctions/:id/proxy", h.removeProxyCeiling)
	app.Get("/auctions/:id/can-bid", h.canBid)
	app.Post("/auctions/:id/bid-requests", h.submitBidRequest)
	app.Post("/bid-requests/:id/resolve", h.resolveBidRequest)
	app.Post("/auctions/:id/rejections/:bidder", h.rejectBidder)
	app.Delete("/auctions/:id/rejections/:bidder", h.unrejectBidder)

	app.Use("/ws/auctions/:id", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/auctions/:id", websocket.New(h.subscribeAuction))
}

func (h *AuctionHandler) getAuction(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	state, err := h.auctionService.GetAuctionState(c.Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (h *AuctionHandler) listBids(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	bids, err := h.auctionService.ListBids(c.Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"bids": bids})
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.auctionService.PlaceBid(c.Context(), application.PlaceBidDTO{
		AuctionID: auctionID,
		BidderID:  callerID,
		Amount:    body.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}

	// notification side effect after commit, best effort
	h.wsHandler.BroadcastResult(c.Context(), result)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"price":     result.Price,
		"bid_count": result.BidCount,
		"leader_id": result.LeaderID,
	})
}

func (h *AuctionHandler) setProxyCeiling(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		MaxPrice int64 `json:"max_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	err = h.auctionService.SetProxyCeiling(c.Context(), application.SetCeilingDTO{
		AuctionID: auctionID,
		BidderID:  callerID,
		MaxPrice:  body.MaxPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuctionHandler) removeProxyCeiling(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	removed, err := h.auctionService.RemoveProxyCeiling(c.Context(), auctionID, callerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// canBid reports whether the caller may bid, without placing anything.
func (h *AuctionHandler) canBid(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	if err := h.auctionService.CanBid(c.Context(), auctionID, callerID); err != nil {
		if errors.Is(err, domain.ErrBidderRejected) || errors.Is(err, domain.ErrApprovalRequired) {
			return c.JSON(fiber.Map{"allowed": false, "reason": err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"allowed": true})
}

func (h *AuctionHandler) submitBidRequest(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	request, err := h.auctionService.SubmitBidRequest(c.Context(), auctionID, callerID, body.Message)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(request)
}

func (h *AuctionHandler) resolveBidRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid request id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}

	var body struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	request, err := h.auctionService.ResolveBidRequest(c.Context(), requestID, callerID, body.Approve, body.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(request)
}

func (h *AuctionHandler) rejectBidder(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	bidderID, err := uuid.Parse(c.Params("bidder"))
	if err != nil {
		return badRequest(c, "invalid bidder id")
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

	if err := h.auctionService.RejectBidder(c.Context(), auctionID, callerID, bidderID, body.Reason); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuctionHandler) unrejectBidder(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid auction id")
	}
	bidderID, err := uuid.Parse(c.Params("bidder"))
	if err != nil {
		return badRequest(c, "invalid bidder id")
	}
	callerID, err := callerID(c)
	if err != nil {
		return badRequest(c, "missing or invalid X-User-ID header")
	}
	removed, err := h.auctionService.UnrejectBidder(c.Context(), auctionID, callerID, bidderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// subscribeAuction registers the connection with the hub and starts its read
// and write pumps; the connection lives until either pump exits.
func (h *AuctionHandler) subscribeAuction(conn *websocket.Conn) {
	auctionID := conn.Params("id")
	client := &sharedws.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, 16),
		AuctionID: auctionID,
		ID:        uuid.NewString(),
	}
	h.hub.RegisterClient(client)

	ctx := context.Background()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Get("X-User-ID"))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// writeError maps domain sentinels to HTTP statuses; everything unrecognized
// is a 500.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrBidRequestNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidBidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAuctionNotActive),
		errors.Is(err, domain.ErrAuctionEnded),
		errors.Is(err, domain.ErrBidAmountTooLow),
		errors.Is(err, domain.ErrCeilingTooLow):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrOwnBidNotAllowed),
		errors.Is(err, domain.ErrBidderRejected),
		errors.Is(err, domain.ErrApprovalRequired),
		errors.Is(err, domain.ErrNotProductOwner):
		status = fiber.StatusForbidden
	default:
		log.Error("unhandled error in auction handler", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
