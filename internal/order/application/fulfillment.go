package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	auctiondomain "github.com/bidworks/gavel/internal/auction/domain"
	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/bidworks/gavel/internal/shared/logger"
	userdomain "github.com/bidworks/gavel/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// TxBeginner starts database transactions. *pgxpool.Pool satisfies it; tests
// substitute a stub.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// FulfillmentUseCase drives an order through the fixed sequence of role-gated
// steps that follows a closed auction. Every transition re-reads and locks
// the order row inside its own transaction; the auction row is never touched
// once the order exists.
type FulfillmentUseCase struct {
	orderRepo   domain.OrderRepository
	ratingRepo  domain.RatingRepository
	userRepo    userdomain.UserRepository
	auctionRepo auctiondomain.AuctionRepository
	bidRepo     auctiondomain.BidRepository
	db          TxBeginner
}

func NewFulfillmentUseCase(orderRepo domain.OrderRepository,
	ratingRepo domain.RatingRepository,
	userRepo userdomain.UserRepository,
	auctionRepo auctiondomain.AuctionRepository,
	bidRepo auctiondomain.BidRepository,
	db TxBeginner) *FulfillmentUseCase {

	return &FulfillmentUseCase{
		orderRepo:   orderRepo,
		ratingRepo:  ratingRepo,
		userRepo:    userRepo,
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		db:          db,
	}
}

// inTx runs fn inside a transaction with the teacher-pool commit/rollback
// discipline: rollback on error or panic, commit otherwise.
func (uc *FulfillmentUseCase) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := uc.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()
	err = fn(tx)
	return err
}

// EnsureOrder creates the order for a closed auction on first access and
// returns the existing one on every later call. The auction row lock makes
// creation race-free: concurrent callers serialize here and all but the first
// find the order already present.
func (uc *FulfillmentUseCase) EnsureOrder(ctx context.Context, auctionID uuid.UUID) (*domain.Order, error) {
	if existing, err := uc.orderRepo.GetByAuction(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("ensure order: auction %s: %w", auctionID, err)
	} else if existing != nil {
		return existing, nil
	}

	var order *domain.Order
	err := uc.inTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return fmt.Errorf("ensure order: auction %s: %w", auctionID, err)
		}

		// second look with the lock held
		if existing, err := uc.orderRepo.GetByAuction(ctx, auctionID); err != nil {
			return fmt.Errorf("ensure order: auction %s: %w", auctionID, err)
		} else if existing != nil {
			order = existing
			return nil
		}

		if !auction.Closed(time.Now().UTC()) {
			return domain.ErrAuctionStillOpen
		}

		winner, err := uc.bidRepo.HighestByAuction(ctx, tx, auctionID)
		if err != nil {
			return fmt.Errorf("ensure order: failed to find winning bid: %w", err)
		}
		if winner == nil {
			return domain.ErrNoWinningBid
		}

		if auction.Status == auctiondomain.StatusActive {
			if err := uc.auctionRepo.MarkEnded(ctx, tx, auctionID); err != nil {
				return fmt.Errorf("ensure order: failed to end auction: %w", err)
			}
		}

		order = domain.NewOrder(uuid.New(), auctionID, auction.SellerID, winner.BidderID, auction.CurrentPrice)
		if err := uc.orderRepo.Insert(ctx, tx, order); err != nil {
			return fmt.Errorf("ensure order: failed to insert: %w", err)
		}

		log.Info("Order created",
			zap.String("orderID", order.ID.String()),
			zap.String("auctionID", auctionID.String()),
			zap.String("buyerID", order.BuyerID.String()),
			zap.Int64("totalPrice", order.TotalPrice),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// SubmitPaymentDetails is the buyer's step: append an invoice record and move
// the order to payment_confirmed_awaiting_delivery.
func (uc *FulfillmentUseCase) SubmitPaymentDetails(ctx context.Context, orderID, buyerID uuid.UUID, paymentMethod, shippingAddress string) (*domain.Order, error) {
	if paymentMethod == "" || shippingAddress == "" {
		return nil, domain.ErrMissingPaymentDetails
	}

	var order *domain.Order
	err := uc.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = uc.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return domain.ErrOrderForbidden
		}
		if order.Status != domain.StatusAwaitingPayment {
			return domain.ErrOrderInvalidState
		}

		invoice := &domain.OrderInvoice{
			ID:              uuid.New(),
			OrderID:         orderID,
			PaymentMethod:   paymentMethod,
			ShippingAddress: shippingAddress,
			CreatedAt:       time.Now().UTC(),
		}
		if err := uc.orderRepo.InsertInvoice(ctx, tx, invoice); err != nil {
			return fmt.Errorf("submit payment details: failed to insert invoice: %w", err)
		}
		return uc.transition(ctx, tx, order, domain.StatusPaymentConfirmed, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmPaymentAndShip is the seller's step: append a shipment record and
// move the order to delivery_confirmed_ready_to_rate.
func (uc *FulfillmentUseCase) ConfirmPaymentAndShip(ctx context.Context, orderID, sellerID uuid.UUID, carrier, trackingCode, note string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = uc.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.SellerID != sellerID {
			return domain.ErrOrderForbidden
		}
		if order.Status != domain.StatusPaymentConfirmed {
			return domain.ErrOrderInvalidState
		}

		shipment := &domain.OrderShipment{
			ID:           uuid.New(),
			OrderID:      orderID,
			Carrier:      carrier,
			TrackingCode: trackingCode,
			Note:         note,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.orderRepo.InsertShipment(ctx, tx, shipment); err != nil {
			return fmt.Errorf("confirm payment and ship: failed to insert shipment: %w", err)
		}
		return uc.transition(ctx, tx, order, domain.StatusDeliveryConfirmed, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmDelivery is the buyer's final step: the order reaches its terminal
// completed state.
func (uc *FulfillmentUseCase) ConfirmDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	err := uc.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = uc.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return domain.ErrOrderForbidden
		}
		if order.Status != domain.StatusDeliveryConfirmed {
			return domain.ErrOrderInvalidState
		}
		return uc.transition(ctx, tx, order, domain.StatusCompleted, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder is the seller's escape from any non-terminal state. The system
// records an automatic -1 rating from seller to buyer in the same
// transaction, going through the usual delta path so an earlier rating for
// the order is replaced, not double counted.
func (uc *FulfillmentUseCase) CancelOrder(ctx context.Context, orderID, sellerID uuid.UUID, reason string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = uc.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.SellerID != sellerID {
			return domain.ErrOrderForbidden
		}
		if order.Status.Terminal() {
			return domain.ErrOrderInvalidState
		}

		if err := uc.transition(ctx, tx, order, domain.StatusCanceled, reason); err != nil {
			return err
		}
		return uc.applyRating(ctx, tx, order.SellerID, order.BuyerID, order.AuctionID, -1)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *FulfillmentUseCase) lockOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			log.Error("failed to lock order",
				zap.String("orderID", orderID.String()),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	return order, nil
}

func (uc *FulfillmentUseCase) transition(ctx context.Context, tx pgx.Tx, order *domain.Order, to domain.OrderStatus, cancelReason string) error {
	if err := uc.orderRepo.UpdateStatus(ctx, tx, order.ID, to, cancelReason); err != nil {
		return fmt.Errorf("failed to move order %s to %s: %w", order.ID, to, err)
	}
	log.Info("Order transitioned",
		zap.String("orderID", order.ID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)),
	)
	order.Status = to
	order.CancelReason = cancelReason
	return nil
}

// applyRating upserts the (from, to, auction) rating and adjusts the target's
// aggregate counters by the delta between old and new score, all inside the
// caller's transaction so concurrent re-ratings stay consistent.
func (uc *FulfillmentUseCase) applyRating(ctx context.Context, tx pgx.Tx, fromID, toID, auctionID uuid.UUID, score int) error {
	old, err := uc.ratingRepo.GetForUpdate(ctx, tx, fromID, toID, auctionID)
	if err != nil {
		return fmt.Errorf("failed to load rating: %w", err)
	}

	deltaPositive, deltaNegative := domain.RatingDelta(old, score)

	now := time.Now().UTC()
	rating := &domain.Rating{
		FromUserID: fromID,
		ToUserID:   toID,
		AuctionID:  auctionID,
		Score:      score,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if old != nil {
		rating.CreatedAt = old.CreatedAt
	}
	if err := uc.ratingRepo.Upsert(ctx, tx, rating); err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	if deltaPositive != 0 || deltaNegative != 0 {
		if err := uc.userRepo.AdjustRatingCounters(ctx, tx, toID, deltaPositive, deltaNegative); err != nil {
			return fmt.Errorf("failed to adjust rating counters: %w", err)
		}
	}

	log.Info("Rating applied",
		zap.String("fromUserID", fromID.String()),
		zap.String("toUserID", toID.String()),
		zap.Int("score", score),
		zap.Int("deltaPositive", deltaPositive),
		zap.Int("deltaNegative", deltaNegative),
	)
	return nil
}
