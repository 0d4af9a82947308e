package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"auction-server/internal/auctionerrors"
	model "auction-server/internal/models"
	"auction-server/internal/protocol"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionStore.
// mu guards the maps only; read-modify-write cycles hold the per-key lock of their user or auction.
type MemoryRepo struct {
	mu       sync.RWMutex
	users    map[string]model.User    // key: uid
	auctions map[string]model.Auction // key: aid
	bidders  map[string][]string      // key: uid -> aids the user has bid on
	lastAID  int

	userLocks    *keyLock
	auctionLocks *keyLock
}

var _ AuctionStore = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:        make(map[string]model.User),
		auctions:     make(map[string]model.Auction),
		bidders:      make(map[string][]string),
		userLocks:    newKeyLock(),
		auctionLocks: newKeyLock(),
	}
}

func (r *MemoryRepo) user(uid string) (model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[uid]
	return u, ok
}

// updateUser runs fn on a copy of the user record and stores it if fn succeeds
func (r *MemoryRepo) updateUser(uid string, fn func(u *model.User, found bool) error) error {
	unlock := r.userLocks.Lock(uid)
	defer unlock()

	u, found := r.user(uid)
	if err := fn(&u, found); err != nil {
		return err
	}

	r.mu.Lock()
	r.users[uid] = u
	r.mu.Unlock()
	return nil
}

// LoginOrRegister logs a user in, registering unknown users
func (r *MemoryRepo) LoginOrRegister(ctx context.Context, uid, password string) (model.LoginResult, error) {
	var result model.LoginResult
	err := r.updateUser(uid, func(u *model.User, found bool) error {
		result = login(u, found, uid, password)
		return nil
	})
	return result, err
}

func (r *MemoryRepo) Logout(ctx context.Context, uid, password string) error {
	err := r.updateUser(uid, func(u *model.User, found bool) error {
		return logout(u, found, password)
	})
	if err != nil {
		return fmt.Errorf("logout user %s: %w", uid, err)
	}
	return nil
}

func (r *MemoryRepo) Unregister(ctx context.Context, uid, password string) error {
	err := r.updateUser(uid, func(u *model.User, found bool) error {
		return unregister(u, found, password)
	})
	if err != nil {
		return fmt.Errorf("unregister user %s: %w", uid, err)
	}
	return nil
}

func (r *MemoryRepo) CheckCredentials(ctx context.Context, uid, password string) error {
	u, found := r.user(uid)
	if err := verify(u, found, password); err != nil {
		return fmt.Errorf("check credentials of %s: %w", uid, err)
	}
	return nil
}

func (r *MemoryRepo) CheckSession(ctx context.Context, uid string) error {
	u, found := r.user(uid)
	if err := checkSession(u, found); err != nil {
		return fmt.Errorf("check session of %s: %w", uid, err)
	}
	return nil
}

// NextAID allocates the next sequential auction identifier
func (r *MemoryRepo) NextAID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastAID >= protocol.MaxAID {
		return "", fmt.Errorf("allocate aid: %w", auctionerrors.ErrAuctionLimit)
	}
	r.lastAID++
	return protocol.FormatAID(r.lastAID), nil
}

// CreateAuction stores a new auction under its preallocated AID
func (r *MemoryRepo) CreateAuction(ctx context.Context, auction model.Auction) error {
	unlock := r.auctionLocks.Lock(auction.AuctionID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionExists)
	}
	r.auctions[auction.AuctionID] = auction.Clone()
	return nil
}

// UpdateAuction applies fn to the auction while holding its lock
func (r *MemoryRepo) UpdateAuction(ctx context.Context, aid string, fn func(*model.Auction) error) (model.Auction, error) {
	unlock := r.auctionLocks.Lock(aid)
	defer unlock()

	current, err := r.GetAuction(ctx, aid)
	if err != nil {
		return model.Auction{}, err
	}
	before := len(current.Bids)
	if err := fn(&current); err != nil {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", aid, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[aid] = current.Clone()
	for _, b := range current.Bids[before:] {
		r.addBidder(b.BidderID, aid)
	}
	return current, nil
}

// addBidder indexes aid under uid once. Callers hold mu.
func (r *MemoryRepo) addBidder(uid, aid string) {
	for _, id := range r.bidders[uid] {
		if id == aid {
			return
		}
	}
	r.bidders[uid] = append(r.bidders[uid], aid)
}

// GetAuction returns a copy of the auction with its bids
func (r *MemoryRepo) GetAuction(ctx context.Context, aid string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[aid]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", aid, auctionerrors.ErrAuctionNotFound)
	}
	return a.Clone(), nil
}

func (r *MemoryRepo) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	return r.list("list auctions", func(model.Auction) bool { return true })
}

func (r *MemoryRepo) ListAuctionsByHost(ctx context.Context, uid string) ([]model.Auction, error) {
	return r.list("list auctions hosted by "+uid, func(a model.Auction) bool { return a.HostedBy(uid) })
}

func (r *MemoryRepo) ListAuctionsBidByUser(ctx context.Context, uid string) ([]model.Auction, error) {
	r.mu.RLock()
	aids := append([]string(nil), r.bidders[uid]...)
	r.mu.RUnlock()

	bidOn := make(map[string]bool, len(aids))
	for _, aid := range aids {
		bidOn[aid] = true
	}
	return r.list("list auctions bid by "+uid, func(a model.Auction) bool { return bidOn[a.AuctionID] })
}

func (r *MemoryRepo) list(op string, keep func(model.Auction) bool) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Auction, 0)
	for _, a := range r.auctions {
		if keep(a) {
			out = append(out, summary(a))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", op, auctionerrors.ErrNoAuctions)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuctionID < out[j].AuctionID })
	return out, nil
}

func (r *MemoryRepo) Close() error {
	return nil
}
