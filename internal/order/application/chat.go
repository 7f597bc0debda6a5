package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// chatWindowCap bounds how much history a single read returns; the thread
// itself is unbounded.
const chatWindowCap = 100

// PostChatMessage appends a message to the order's chat thread. Participants
// only; no state restriction.
func (uc *FulfillmentUseCase) PostChatMessage(ctx context.Context, orderID, senderID uuid.UUID, body string) (*domain.ChatMessage, error) {
	if body == "" {
		return nil, domain.ErrEmptyChatMessage
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("post chat message: order %s: %w", orderID, err)
	}
	if !order.IsParticipant(senderID) {
		return nil, domain.ErrOrderForbidden
	}

	message := &domain.ChatMessage{
		ID:        uuid.New(),
		OrderID:   orderID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.orderRepo.InsertChatMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("post chat message: failed to insert: %w", err)
	}
	return message, nil
}

// ListChat returns the most recent messages of the thread, oldest first,
// capped at chatWindowCap per read.
func (uc *FulfillmentUseCase) ListChat(ctx context.Context, orderID, callerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list chat: order %s: %w", orderID, err)
	}
	if !order.IsParticipant(callerID) {
		return nil, domain.ErrOrderForbidden
	}

	if limit <= 0 || limit > chatWindowCap {
		limit = chatWindowCap
	}
	messages, err := uc.orderRepo.ListChatMessages(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat: order %s: %w", orderID, err)
	}
	// repository returns newest first
	return lo.Reverse(messages), nil
}
