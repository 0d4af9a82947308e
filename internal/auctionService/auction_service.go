package auction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"

	"auction-server/internal/assets"
	"auction-server/internal/auctionerrors"
	"auction-server/internal/metrics"
	"auction-server/internal/models"
	"auction-server/internal/protocol"
	"auction-server/internal/repository"
	"auction-server/utils"
)

// AssetStore keeps the file attached to each auction
type AssetStore interface {
	Stage() (*assets.Upload, error)
	Open(aid string) (*os.File, int64, error)
	Remove(aid string) error
}

// Asset is an uploaded file waiting for its auction to be created
type Asset interface {
	Commit(aid string) error
	Discard() error
}

// Upload receives an asset before its auction exists
type Upload interface {
	io.Writer
	Asset
}

// OpenAuction describes an auction to create
type OpenAuction struct {
	UID          string
	Password     string
	Name         string
	StartValue   int
	DurationSecs int
	AssetName    string
	Asset        Asset
}

// AssetDownload is an auction's asset ready to be streamed. The caller closes Body.
type AssetDownload struct {
	Name string
	Size int64
	Body io.ReadCloser
}

// AuctionService applies the auction lifecycle to the store.
// It keeps no state between calls; expiration is evaluated against the clock on every access.
type AuctionService struct {
	repo   repository.AuctionStore
	assets AssetStore
	clock  clock.Clock
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionStore, assets AssetStore, clk clock.Clock) *AuctionService {
	if clk == nil {
		clk = clock.New()
	}
	return &AuctionService{
		repo:   repo,
		assets: assets,
		clock:  clk,
	}
}

// now is the wall clock at the second granularity the protocol reports
func (s *AuctionService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

// Login logs a user in, registering it on first contact
func (s *AuctionService) Login(ctx context.Context, uid, password string) (models.LoginResult, error) {
	if err := validateCredentials(uid, password); err != nil {
		return models.LoginRejected, err
	}

	result, err := s.repo.LoginOrRegister(ctx, uid, password)
	if err != nil {
		return models.LoginRejected, fmt.Errorf("service: failed to log in user %s: %w", uid, err)
	}
	return result, nil
}

// Logout ends the session of a logged in user
func (s *AuctionService) Logout(ctx context.Context, uid, password string) error {
	if err := validateCredentials(uid, password); err != nil {
		return err
	}
	if err := s.repo.Logout(ctx, uid, password); err != nil {
		return fmt.Errorf("service: failed to log out user %s: %w", uid, err)
	}
	return nil
}

// Unregister logs a user out and drops its registration
func (s *AuctionService) Unregister(ctx context.Context, uid, password string) error {
	if err := validateCredentials(uid, password); err != nil {
		return err
	}
	if err := s.repo.Unregister(ctx, uid, password); err != nil {
		return fmt.Errorf("service: failed to unregister user %s: %w", uid, err)
	}
	return nil
}

// StageAsset opens an upload for the asset of an auction about to be opened
func (s *AuctionService) StageAsset() (Upload, error) {
	upload, err := s.assets.Stage()
	if err != nil {
		return nil, fmt.Errorf("service: failed to stage asset: %w", err)
	}
	return upload, nil
}

// OpenAuction creates an open auction owned by req.UID and commits its asset.
// The asset is discarded whenever the auction is not created.
func (s *AuctionService) OpenAuction(ctx context.Context, req OpenAuction) (models.Auction, error) {
	if req.Asset != nil {
		defer req.Asset.Discard()
	}

	if err := validateOpen(req); err != nil {
		return models.Auction{}, err
	}
	if err := s.repo.CheckCredentials(ctx, req.UID, req.Password); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to authenticate host %s: %w", req.UID, err)
	}

	aid, err := s.repo.NextAID(ctx)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to allocate auction id: %w", err)
	}
	if err := req.Asset.Commit(aid); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to store asset of auction %s: %w", aid, err)
	}

	auction := models.Auction{
		AuctionID:    aid,
		HostID:       req.UID,
		Name:         req.Name,
		AssetName:    req.AssetName,
		StartValue:   req.StartValue,
		DurationSecs: req.DurationSecs,
		StartedAt:    s.now(),
		State:        models.StateOpen,
	}
	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		if rmErr := s.assets.Remove(aid); rmErr != nil {
			utils.Warn("failed to remove asset of unstored auction", map[string]any{
				"auction_id": aid,
				"error":      rmErr.Error(),
			})
		}
		return models.Auction{}, fmt.Errorf("service: failed to create auction %s: %w", aid, err)
	}

	metrics.RecordAuctionEvent(metrics.EventOpened)
	return auction, nil
}

// CloseAuction ends an open auction on behalf of its host
func (s *AuctionService) CloseAuction(ctx context.Context, uid, password, aid string) (models.Auction, error) {
	if err := validateCredentials(uid, password); err != nil {
		return models.Auction{}, err
	}
	if err := validateAID(aid); err != nil {
		return models.Auction{}, err
	}
	if err := s.repo.CheckCredentials(ctx, uid, password); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to authenticate user %s: %w", uid, err)
	}

	auction, err := s.transition(ctx, aid, applyClose(uid))
	if err != nil {
		return auction, fmt.Errorf("service: failed to close auction %s: %w", aid, err)
	}

	metrics.RecordAuctionEvent(metrics.EventClosed)
	return auction, nil
}

// PlaceBid records a bid that beats the current highest value of an open auction
func (s *AuctionService) PlaceBid(ctx context.Context, uid, password, aid string, value int) (models.Bid, error) {
	if err := validateCredentials(uid, password); err != nil {
		return models.Bid{}, err
	}
	if err := validateAID(aid); err != nil {
		return models.Bid{}, err
	}
	if value < 1 || value > protocol.MaxValue {
		return models.Bid{}, fmt.Errorf("service: %w - bid value %d", auctionerrors.ErrValidation, value)
	}
	if err := s.repo.CheckCredentials(ctx, uid, password); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to authenticate bidder %s: %w", uid, err)
	}

	bid := models.Bid{
		AuctionID: aid,
		BidderID:  uid,
		Value:     value,
	}
	auction, err := s.transition(ctx, aid, func(a *models.Auction, now time.Time) error {
		bid.PlacedAt = now
		return applyBid(a, bid)
	})
	if err != nil {
		if errors.Is(err, auctionerrors.ErrBidTooLow) {
			metrics.RecordAuctionEvent(metrics.EventBidRefused)
		}
		return models.Bid{}, fmt.Errorf("service: failed to bid on auction %s by user %s: %w", aid, uid, err)
	}

	metrics.RecordAuctionEvent(metrics.EventBidAccepted)
	return auction.Bids[len(auction.Bids)-1], nil
}

// ListAuctions returns every auction with expiration applied
func (s *AuctionService) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return s.settle(ctx, auctions), nil
}

// MyAuctions returns the auctions hosted by a logged in user
func (s *AuctionService) MyAuctions(ctx context.Context, uid string) ([]models.Auction, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}
	if err := s.repo.CheckSession(ctx, uid); err != nil {
		return nil, fmt.Errorf("service: failed to check session of %s: %w", uid, err)
	}

	auctions, err := s.repo.ListAuctionsByHost(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions of %s: %w", uid, err)
	}
	return s.settle(ctx, auctions), nil
}

// MyBids returns the auctions a logged in user has bid on
func (s *AuctionService) MyBids(ctx context.Context, uid string) ([]models.Auction, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}
	if err := s.repo.CheckSession(ctx, uid); err != nil {
		return nil, fmt.Errorf("service: failed to check session of %s: %w", uid, err)
	}

	auctions, err := s.repo.ListAuctionsBidByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids of %s: %w", uid, err)
	}
	return s.settle(ctx, auctions), nil
}

// ShowRecord returns an auction with its bids and expiration applied
func (s *AuctionService) ShowRecord(ctx context.Context, aid string) (models.Auction, error) {
	if err := validateAID(aid); err != nil {
		return models.Auction{}, err
	}

	auction, err := s.repo.GetAuction(ctx, aid)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", aid, err)
	}
	if !models.IsExpired(auction, s.now()) {
		return auction, nil
	}

	auction, err = s.transition(ctx, aid, nil)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to expire auction %s: %w", aid, err)
	}
	return auction, nil
}

// ShowAsset opens the asset of an auction for download
func (s *AuctionService) ShowAsset(ctx context.Context, aid string) (AssetDownload, error) {
	if err := validateAID(aid); err != nil {
		return AssetDownload{}, err
	}

	auction, err := s.repo.GetAuction(ctx, aid)
	if err != nil {
		return AssetDownload{}, fmt.Errorf("service: failed to get auction %s: %w", aid, err)
	}
	file, size, err := s.assets.Open(aid)
	if err != nil {
		return AssetDownload{}, fmt.Errorf("service: failed to open asset of %s: %w", aid, err)
	}
	return AssetDownload{Name: auction.AssetName, Size: size, Body: file}, nil
}

// transition runs apply against aid after lazy expiration.
// A newly detected expiration is stored even when apply rejects the request.
// A nil apply only expires.
func (s *AuctionService) transition(ctx context.Context, aid string, apply func(*models.Auction, time.Time) error) (models.Auction, error) {
	now := s.now()

	var (
		rejected error
		expired  bool
	)
	auction, err := s.repo.UpdateAuction(ctx, aid, func(a *models.Auction) error {
		rejected = nil
		expired = expire(a, now)
		if apply != nil {
			rejected = apply(a, now)
		}
		if rejected != nil && !expired {
			return rejected
		}
		return nil
	})
	if err != nil {
		return models.Auction{}, err
	}
	if expired {
		metrics.RecordAuctionEvent(metrics.EventExpired)
	}
	if rejected != nil {
		return auction, rejected
	}
	return auction, nil
}

// settle applies expiration to listed auctions and stores newly detected ones
func (s *AuctionService) settle(ctx context.Context, auctions []models.Auction) []models.Auction {
	now := s.now()
	for i := range auctions {
		if !models.IsExpired(auctions[i], now) {
			continue
		}
		expire(&auctions[i], now)
		if _, err := s.transition(ctx, auctions[i].AuctionID, nil); err != nil {
			utils.Warn("failed to store auction expiration", map[string]any{
				"aid":   auctions[i].AuctionID,
				"error": err.Error(),
			})
		}
	}
	return auctions
}
