package application

import (
	"context"
	"sort"
	"time"

	auctiondomain "github.com/bidworks/gavel/internal/auction/domain"
	"github.com/bidworks/gavel/internal/order/domain"
	userdomain "github.com/bidworks/gavel/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeTx embeds the pgx.Tx interface so only the methods the use cases touch
// need implementing; anything else panics loudly.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	lastTx *fakeTx
}

func (db *fakeDB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	db.lastTx = &fakeTx{}
	return db.lastTx, nil
}

type fakeOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	invoices  []*domain.OrderInvoice
	shipments []*domain.OrderShipment
	chats     []*domain.ChatMessage
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) GetByAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.AuctionID == auctionID {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Insert(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.OrderStatus, cancelReason string) error {
	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	order.CancelReason = cancelReason
	return nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.IsParticipant(userID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) InsertInvoice(ctx context.Context, tx pgx.Tx, invoice *domain.OrderInvoice) error {
	r.invoices = append(r.invoices, invoice)
	return nil
}

func (r *fakeOrderRepo) InsertShipment(ctx context.Context, tx pgx.Tx, shipment *domain.OrderShipment) error {
	r.shipments = append(r.shipments, shipment)
	return nil
}

func (r *fakeOrderRepo) LatestInvoice(ctx context.Context, orderID uuid.UUID) (*domain.OrderInvoice, error) {
	var latest *domain.OrderInvoice
	for _, inv := range r.invoices {
		if inv.OrderID != orderID {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) {
			latest = inv
		}
	}
	return latest, nil
}

func (r *fakeOrderRepo) LatestShipment(ctx context.Context, orderID uuid.UUID) (*domain.OrderShipment, error) {
	var latest *domain.OrderShipment
	for _, sh := range r.shipments {
		if sh.OrderID != orderID {
			continue
		}
		if latest == nil || sh.CreatedAt.After(latest.CreatedAt) {
			latest = sh
		}
	}
	return latest, nil
}

func (r *fakeOrderRepo) InsertChatMessage(ctx context.Context, message *domain.ChatMessage) error {
	r.chats = append(r.chats, message)
	return nil
}

func (r *fakeOrderRepo) ListChatMessages(ctx context.Context, orderID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range r.chats {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type ratingKey struct {
	from    uuid.UUID
	to      uuid.UUID
	auction uuid.UUID
}

type fakeRatingRepo struct {
	ratings map[ratingKey]*domain.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[ratingKey]*domain.Rating)}
}

func (r *fakeRatingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, fromUserID, toUserID, auctionID uuid.UUID) (*domain.Rating, error) {
	return r.ratings[ratingKey{fromUserID, toUserID, auctionID}], nil
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, tx pgx.Tx, rating *domain.Rating) error {
	r.ratings[ratingKey{rating.FromUserID, rating.ToUserID, rating.AuctionID}] = rating
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*userdomain.User
}

func newFakeUserRepo(users ...*userdomain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*userdomain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) AdjustRatingCounters(ctx context.Context, tx pgx.Tx, id uuid.UUID, deltaPositive, deltaNegative int) error {
	user, ok := r.users[id]
	if !ok {
		user = &userdomain.User{ID: id}
		r.users[id] = user
	}
	user.RatingPositive = max(user.RatingPositive+deltaPositive, 0)
	user.RatingNegative = max(user.RatingNegative+deltaNegative, 0)
	return nil
}

type fakeAuctionRepo struct {
	auctions map[uuid.UUID]*auctiondomain.Auction
}

func newFakeAuctionRepo(auctions ...*auctiondomain.Auction) *fakeAuctionRepo {
	repo := &fakeAuctionRepo{auctions: make(map[uuid.UUID]*auctiondomain.Auction)}
	for _, a := range auctions {
		repo.auctions[a.ID] = a
	}
	return repo
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*auctiondomain.Auction, error) {
	auction, ok := r.auctions[id]
	if !ok {
		return nil, auctiondomain.ErrAuctionNotFound
	}
	return auction, nil
}

func (r *fakeAuctionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*auctiondomain.Auction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAuctionRepo) UpdatePriceAndCount(ctx context.Context, tx pgx.Tx, id uuid.UUID, price int64, bidCount int) error {
	auction, ok := r.auctions[id]
	if !ok {
		return auctiondomain.ErrAuctionNotFound
	}
	auction.CurrentPrice = price
	auction.BidCount = bidCount
	return nil
}

func (r *fakeAuctionRepo) MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	auction, ok := r.auctions[id]
	if !ok {
		return auctiondomain.ErrAuctionNotFound
	}
	auction.Status = auctiondomain.StatusEnded
	return nil
}

func (r *fakeAuctionRepo) GetActiveEndingBefore(ctx context.Context, deadline time.Time) ([]*auctiondomain.Auction, error) {
	var out []*auctiondomain.Auction
	for _, a := range r.auctions {
		if a.Status == auctiondomain.StatusActive && a.EndTime.Before(deadline) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeBidRepo struct {
	bids []*auctiondomain.Bid
}

func (r *fakeBidRepo) Insert(ctx context.Context, tx pgx.Tx, bid *auctiondomain.Bid) error {
	r.bids = append(r.bids, bid)
	return nil
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*auctiondomain.Bid, error) {
	var out []*auctiondomain.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) LatestByAuction(ctx context.Context, auctionID uuid.UUID) (*auctiondomain.Bid, error) {
	var latest *auctiondomain.Bid
	for _, b := range r.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	return latest, nil
}

func (r *fakeBidRepo) HighestByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*auctiondomain.Bid, error) {
	var highest *auctiondomain.Bid
	for _, b := range r.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if highest == nil || b.Amount > highest.Amount {
			highest = b
		}
	}
	return highest, nil
}
