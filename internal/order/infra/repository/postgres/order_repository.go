package postgres

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, auction_id, seller_id, buyer_id, total_price, status, cancel_reason, created_at, updated_at`

// OrderRepository implements domain.OrderRepository on PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.AuctionID,
		&order.SellerID,
		&order.BuyerID,
		&order.TotalPrice,
		&order.Status,
		&order.CancelReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate loads the order inside tx and holds a row lock on it until
// the transaction ends.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(tx.QueryRow(ctx, query, id))
}

func (r *OrderRepository) GetByAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE auction_id = $1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, auctionID))
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	return order, err
}

func (r *OrderRepository) Insert(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `
        INSERT INTO orders (id, auction_id, seller_id, buyer_id, total_price, status, cancel_reason)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := tx.Exec(ctx, query,
		order.ID,
		order.AuctionID,
		order.SellerID,
		order.BuyerID,
		order.TotalPrice,
		order.Status,
		order.CancelReason,
	)
	return err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.OrderStatus, cancelReason string) error {
	query := `
        UPDATE orders
        SET status = $2, cancel_reason = $3, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := tx.Exec(ctx, query, id, status, cancelReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE buyer_id = $1 OR seller_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) InsertInvoice(ctx context.Context, tx pgx.Tx, invoice *domain.OrderInvoice) error {
	query := `
        INSERT INTO order_invoices (id, order_id, payment_method, shipping_address, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := tx.Exec(ctx, query,
		invoice.ID,
		invoice.OrderID,
		invoice.PaymentMethod,
		invoice.ShippingAddress,
		invoice.CreatedAt,
	)
	return err
}

func (r *OrderRepository) InsertShipment(ctx context.Context, tx pgx.Tx, shipment *domain.OrderShipment) error {
	query := `
        INSERT INTO order_shipments (id, order_id, carrier, tracking_code, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := tx.Exec(ctx, query,
		shipment.ID,
		shipment.OrderID,
		shipment.Carrier,
		shipment.TrackingCode,
		shipment.Note,
		shipment.CreatedAt,
	)
	return err
}

// LatestInvoice returns the most recent invoice record; history is preserved
// but only the latest is authoritative.
func (r *OrderRepository) LatestInvoice(ctx context.Context, orderID uuid.UUID) (*domain.OrderInvoice, error) {
	query := `
        SELECT id, order_id, payment_method, shipping_address, created_at
        FROM order_invoices
        WHERE order_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	invoice := &domain.OrderInvoice{}
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&invoice.ID,
		&invoice.OrderID,
		&invoice.PaymentMethod,
		&invoice.ShippingAddress,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return invoice, nil
}

func (r *OrderRepository) LatestShipment(ctx context.Context, orderID uuid.UUID) (*domain.OrderShipment, error) {
	query := `
        SELECT id, order_id, carrier, tracking_code, note, created_at
        FROM order_shipments
        WHERE order_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	shipment := &domain.OrderShipment{}
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&shipment.ID,
		&shipment.OrderID,
		&shipment.Carrier,
		&shipment.TrackingCode,
		&shipment.Note,
		&shipment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return shipment, nil
}

func (r *OrderRepository) InsertChatMessage(ctx context.Context, message *domain.ChatMessage) error {
	query := `
        INSERT INTO order_chats (id, order_id, sender_id, body, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.OrderID,
		message.SenderID,
		message.Body,
		message.CreatedAt,
	)
	return err
}

// ListChatMessages returns at most limit messages, newest first; the
// application layer flips them for display.
func (r *OrderRepository) ListChatMessages(ctx context.Context, orderID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	query := `
        SELECT id, order_id, sender_id, body, created_at
        FROM order_chats
        WHERE order_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, orderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		message := &domain.ChatMessage{}
		err := rows.Scan(
			&message.ID,
			&message.OrderID,
			&message.SenderID,
			&message.Body,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
