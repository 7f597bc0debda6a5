package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository persists orders and their append-only sub-records. Methods
// taking a pgx.Tx run inside a transaction owned by the application layer.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Order, error)
	// GetByAuction returns nil when no order exists for the auction.
	GetByAuction(ctx context.Context, auctionID uuid.UUID) (*Order, error)
	Insert(ctx context.Context, tx pgx.Tx, order *Order) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status OrderStatus, cancelReason string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)

	InsertInvoice(ctx context.Context, tx pgx.Tx, invoice *OrderInvoice) error
	InsertShipment(ctx context.Context, tx pgx.Tx, shipment *OrderShipment) error
	LatestInvoice(ctx context.Context, orderID uuid.UUID) (*OrderInvoice, error)
	LatestShipment(ctx context.Context, orderID uuid.UUID) (*OrderShipment, error)

	InsertChatMessage(ctx context.Context, message *ChatMessage) error
	// ListChatMessages returns at most limit messages, newest first.
	ListChatMessages(ctx context.Context, orderID uuid.UUID, limit int) ([]*ChatMessage, error)
}

type RatingRepository interface {
	// GetForUpdate locks the rating row for the caller's transaction,
	// returning nil when the pair has not rated this auction yet.
	GetForUpdate(ctx context.Context, tx pgx.Tx, fromUserID, toUserID, auctionID uuid.UUID) (*Rating, error)
	Upsert(ctx context.Context, tx pgx.Tx, rating *Rating) error
}
