package websocket

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies a websocket message on the auction channel.
type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"            // client places a bid
	MessageTypeServerAuctionUpdate MessageType = "server_auction_update" // server pushes settled auction state
	MessageTypeServerOutbid        MessageType = "server_outbid"         // server notifies an automatic counter-bid
	MessageTypeServerError         MessageType = "server_error"
	MessageTypeServerInfo          MessageType = "server_info"
)

// BaseMessage is the envelope every websocket message carries.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is a bid sent by a connected client.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID `json:"auction_id"`
		BidderID  uuid.UUID `json:"bidder_id"`
		Amount    int64     `json:"amount"`
	} `json:"payload"`
}

// AutomaticBidDTO describes one proxy counter-bid inside an update message.
type AutomaticBidDTO struct {
	BidderID  uuid.UUID `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ServerAuctionUpdateMessage is pushed to every subscriber after a bid and
// its proxy resolution committed.
type ServerAuctionUpdateMessage struct {
	BaseMessage
	Payload struct {
		AuctionID     uuid.UUID         `json:"auction_id"`
		CurrentPrice  int64             `json:"current_price"`
		BidCount      int               `json:"bid_count"`
		LeaderID      uuid.UUID         `json:"leader_id"`
		EndTime       time.Time         `json:"end_time"`
		Status        string            `json:"status"`
		AutomaticBids []AutomaticBidDTO `json:"automatic_bids,omitempty"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

type ServerInfoMessage struct {
	BaseMessage
	Payload struct {
		Message string `json:"message"`
	} `json:"payload"`
}
