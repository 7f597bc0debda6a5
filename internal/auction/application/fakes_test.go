package application

import (
	"context"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
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
	begun  int
}

func (db *fakeDB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	db.begun++
	db.lastTx = &fakeTx{}
	return db.lastTx, nil
}

type fakeAuctionRepo struct {
	auctions map[uuid.UUID]*domain.Auction
}

func newFakeAuctionRepo(auctions ...*domain.Auction) *fakeAuctionRepo {
	repo := &fakeAuctionRepo{auctions: make(map[uuid.UUID]*domain.Auction)}
	for _, a := range auctions {
		repo.auctions[a.ID] = a
	}
	return repo
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	auction, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return auction, nil
}

func (r *fakeAuctionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAuctionRepo) UpdatePriceAndCount(ctx context.Context, tx pgx.Tx, id uuid.UUID, price int64, bidCount int) error {
	auction, ok := r.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	auction.CurrentPrice = price
	auction.BidCount = bidCount
	return nil
}

func (r *fakeAuctionRepo) MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	auction, ok := r.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	auction.Status = domain.StatusEnded
	return nil
}

func (r *fakeAuctionRepo) GetActiveEndingBefore(ctx context.Context, deadline time.Time) ([]*domain.Auction, error) {
	var out []*domain.Auction
	for _, a := range r.auctions {
		if a.Status == domain.StatusActive && a.EndTime.Before(deadline) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeBidRepo struct {
	bids []*domain.Bid
}

func (r *fakeBidRepo) Insert(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	r.bids = append(r.bids, bid)
	return nil
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) LatestByAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	var latest *domain.Bid
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

func (r *fakeBidRepo) HighestByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*domain.Bid, error) {
	var highest *domain.Bid
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

type ceilingKey struct {
	auctionID uuid.UUID
	bidderID  uuid.UUID
}

type fakeCeilingRepo struct {
	ceilings map[ceilingKey]*domain.ProxyCeiling
}

func newFakeCeilingRepo() *fakeCeilingRepo {
	return &fakeCeilingRepo{ceilings: make(map[ceilingKey]*domain.ProxyCeiling)}
}

func (r *fakeCeilingRepo) Upsert(ctx context.Context, ceiling *domain.ProxyCeiling) error {
	key := ceilingKey{ceiling.AuctionID, ceiling.BidderID}
	if existing, ok := r.ceilings[key]; ok {
		ceiling.CreatedAt = existing.CreatedAt
	}
	r.ceilings[key] = ceiling
	return nil
}

func (r *fakeCeilingRepo) Delete(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	key := ceilingKey{auctionID, bidderID}
	_, ok := r.ceilings[key]
	delete(r.ceilings, key)
	return ok, nil
}

func (r *fakeCeilingRepo) ListByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]*domain.ProxyCeiling, error) {
	var out []*domain.ProxyCeiling
	for key, c := range r.ceilings {
		if key.auctionID == auctionID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeGateRepo struct {
	rejections map[ceilingKey]*domain.BidRejection
	requests   map[ceilingKey]*domain.BidRequest
}

func newFakeGateRepo() *fakeGateRepo {
	return &fakeGateRepo{
		rejections: make(map[ceilingKey]*domain.BidRejection),
		requests:   make(map[ceilingKey]*domain.BidRequest),
	}
}

func (r *fakeGateRepo) GetRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (*domain.BidRejection, error) {
	return r.rejections[ceilingKey{auctionID, bidderID}], nil
}

func (r *fakeGateRepo) InsertRejection(ctx context.Context, rejection *domain.BidRejection) error {
	r.rejections[ceilingKey{rejection.AuctionID, rejection.BidderID}] = rejection
	return nil
}

func (r *fakeGateRepo) DeleteRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	key := ceilingKey{auctionID, bidderID}
	_, ok := r.rejections[key]
	delete(r.rejections, key)
	return ok, nil
}

func (r *fakeGateRepo) GetRequest(ctx context.Context, auctionID, bidderID uuid.UUID) (*domain.BidRequest, error) {
	return r.requests[ceilingKey{auctionID, bidderID}], nil
}

func (r *fakeGateRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.BidRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, nil
}

func (r *fakeGateRepo) InsertRequest(ctx context.Context, request *domain.BidRequest) error {
	r.requests[ceilingKey{request.AuctionID, request.BidderID}] = request
	return nil
}

func (r *fakeGateRepo) UpdateRequest(ctx context.Context, request *domain.BidRequest) error {
	r.requests[ceilingKey{request.AuctionID, request.BidderID}] = request
	return nil
}
