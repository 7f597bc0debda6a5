package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of a post-auction order. States are
// linear with one escape transition: the seller may cancel from any
// non-terminal state.
type OrderStatus string

const (
	StatusAwaitingPayment   OrderStatus = "awaiting_payment_details"
	StatusPaymentConfirmed  OrderStatus = "payment_confirmed_awaiting_delivery"
	StatusDeliveryConfirmed OrderStatus = "delivery_confirmed_ready_to_rate"
	StatusCompleted         OrderStatus = "transaction_completed"
	StatusCanceled          OrderStatus = "canceled_by_seller"
)

// Terminal reports whether no further fulfillment transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Order is the transaction record between the winning bidder and the seller
// of a closed auction. Created at most once per auction; root entity for
// invoices, shipments, chat and ratings.
type Order struct {
	ID           uuid.UUID
	AuctionID    uuid.UUID
	SellerID     uuid.UUID
	BuyerID      uuid.UUID
	TotalPrice   int64
	Status       OrderStatus
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewOrder(id, auctionID, sellerID, buyerID uuid.UUID, totalPrice int64) *Order {
	return &Order{
		ID:         id,
		AuctionID:  auctionID,
		SellerID:   sellerID,
		BuyerID:    buyerID,
		TotalPrice: totalPrice,
		Status:     StatusAwaitingPayment,
	}
}

// IsParticipant reports whether the user is the buyer or the seller.
func (o *Order) IsParticipant(userID uuid.UUID) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

// Counterparty returns the other participant of the order.
func (o *Order) Counterparty(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case o.BuyerID:
		return o.SellerID, nil
	case o.SellerID:
		return o.BuyerID, nil
	default:
		return uuid.Nil, ErrOrderForbidden
	}
}

// OrderInvoice is the buyer's submitted payment details. Append-only; the
// latest record per order is authoritative.
type OrderInvoice struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	PaymentMethod   string
	ShippingAddress string
	CreatedAt       time.Time
}

// OrderShipment is the seller's shipping confirmation. Append-only; the
// latest record per order is authoritative.
type OrderShipment struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	Carrier      string
	TrackingCode string
	Note         string
	CreatedAt    time.Time
}

// ChatMessage is one message on an order's chat thread, append-only and
// ordered by CreatedAt.
type ChatMessage struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	SenderID  uuid.UUID
	Body      string
	CreatedAt time.Time
}
