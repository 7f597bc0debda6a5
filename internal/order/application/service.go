package application

import (
	"context"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
)

// OrderService is the application interface of the order module, exposing the
// fulfillment state machine, ratings and chat to the infra layer.
type OrderService interface {
	EnsureOrder(ctx context.Context, auctionID uuid.UUID) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	SubmitPaymentDetails(ctx context.Context, orderID, buyerID uuid.UUID, paymentMethod, shippingAddress string) (*domain.Order, error)
	ConfirmPaymentAndShip(ctx context.Context, orderID, sellerID uuid.UUID, carrier, trackingCode, note string) (*domain.Order, error)
	ConfirmDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, sellerID uuid.UUID, reason string) (*domain.Order, error)
	RateOrder(ctx context.Context, orderID, callerID uuid.UUID, score int) error
	PostChatMessage(ctx context.Context, orderID, senderID uuid.UUID, body string) (*domain.ChatMessage, error)
	ListChat(ctx context.Context, orderID, callerID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type orderService struct {
	fulfillmentUC *FulfillmentUseCase
	orderRepo     domain.OrderRepository
}

func NewOrderService(fulfillmentUC *FulfillmentUseCase, orderRepo domain.OrderRepository) OrderService {
	return &orderService{
		fulfillmentUC: fulfillmentUC,
		orderRepo:     orderRepo,
	}
}

func (os *orderService) EnsureOrder(ctx context.Context, auctionID uuid.UUID) (*domain.Order, error) {
	return os.fulfillmentUC.EnsureOrder(ctx, auctionID)
}

func (os *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return os.orderRepo.GetByID(ctx, orderID)
}

func (os *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return os.orderRepo.ListByUser(ctx, userID)
}

func (os *orderService) SubmitPaymentDetails(ctx context.Context, orderID, buyerID uuid.UUID, paymentMethod, shippingAddress string) (*domain.Order, error) {
	return os.fulfillmentUC.SubmitPaymentDetails(ctx, orderID, buyerID, paymentMethod, shippingAddress)
}

func (os *orderService) ConfirmPaymentAndShip(ctx context.Context, orderID, sellerID uuid.UUID, carrier, trackingCode, note string) (*domain.Order, error) {
	return os.fulfillmentUC.ConfirmPaymentAndShip(ctx, orderID, sellerID, carrier, trackingCode, note)
}

func (os *orderService) ConfirmDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*domain.Order, error) {
	return os.fulfillmentUC.ConfirmDelivery(ctx, orderID, buyerID)
}

func (os *orderService) CancelOrder(ctx context.Context, orderID, sellerID uuid.UUID, reason string) (*domain.Order, error) {
	return os.fulfillmentUC.CancelOrder(ctx, orderID, sellerID, reason)
}

func (os *orderService) RateOrder(ctx context.Context, orderID, callerID uuid.UUID, score int) error {
	return os.fulfillmentUC.RateOrder(ctx, orderID, callerID, score)
}

func (os *orderService) PostChatMessage(ctx context.Context, orderID, senderID uuid.UUID, body string) (*domain.ChatMessage, error) {
	return os.fulfillmentUC.PostChatMessage(ctx, orderID, senderID, body)
}

func (os *orderService) ListChat(ctx context.Context, orderID, callerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	return os.fulfillmentUC.ListChat(ctx, orderID, callerID, limit)
}
