package websocket

import (
	"context"
	"encoding/json"

	"github.com/bidworks/gavel/internal/auction/application"
	"github.com/bidworks/gavel/internal/shared/logger"
	"github.com/bidworks/gavel/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler handles inbound websocket messages for the auction module
// and pushes settled auction state back through the shared hub.
type AuctionWSHandler struct {
	auctionService application.AuctionService
	hub            *websocket.Hub
}

func NewAuctionWSHandler(auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// ListenForMessages consumes the hub's inbound channel until ctx is cancelled.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBidMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format")
		return
	}

	if bidMsg.Payload.AuctionID.String() != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	cmd := application.PlaceBidDTO{
		AuctionID: bidMsg.Payload.AuctionID,
		BidderID:  bidMsg.Payload.BidderID,
		Amount:    bidMsg.Payload.Amount,
	}
	result, err := h.auctionService.PlaceBid(ctx, cmd)
	if err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}

	h.BroadcastResult(ctx, result)
}

// BroadcastResult pushes the settled state of a committed bid to every
// subscriber of the auction. Best effort: a failed broadcast never affects
// the committed transaction.
func (h *AuctionWSHandler) BroadcastResult(ctx context.Context, result *application.PlaceBidResult) {
	state, err := h.auctionService.GetAuctionState(ctx, result.AuctionID)
	if err != nil {
		log.Warn("failed to load auction state for broadcast",
			zap.String("auctionID", result.AuctionID.String()),
			zap.Error(err),
		)
		return
	}

	updateMsg := ServerAuctionUpdateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate},
	}
	updateMsg.Payload.AuctionID = result.AuctionID
	updateMsg.Payload.CurrentPrice = result.Price
	updateMsg.Payload.BidCount = result.BidCount
	updateMsg.Payload.LeaderID = result.LeaderID
	updateMsg.Payload.EndTime = state.EndTime
	updateMsg.Payload.Status = state.Status
	for _, bid := range result.AutomaticBids {
		updateMsg.Payload.AutomaticBids = append(updateMsg.Payload.AutomaticBids, AutomaticBidDTO{
			BidderID:  bid.BidderID,
			Amount:    bid.Amount,
			CreatedAt: bid.CreatedAt,
		})
	}

	data, err := json.Marshal(updateMsg)
	if err != nil {
		log.Error("failed to marshal auction update", zap.Error(err))
		return
	}
	h.hub.BroadcastToAuction(result.AuctionID.String(), data)
}

func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	data, err := json.Marshal(errMsg)
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full or closed, could not send error msg")
	}
}
