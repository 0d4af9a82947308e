package auction

import (
	"fmt"
	"time"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/models"
	"auction-server/internal/protocol"
)

// expire moves an open auction past its deadline to Expired, ending it at the deadline.
// It reports whether it changed a.
func expire(a *models.Auction, now time.Time) bool {
	if !models.IsExpired(*a, now) {
		return false
	}
	a.State = models.StateExpired
	a.EndedAt = a.Deadline()
	return true
}

// applyClose ends an open auction hosted by uid
func applyClose(uid string) func(*models.Auction, time.Time) error {
	return func(a *models.Auction, now time.Time) error {
		if !a.HostedBy(uid) {
			return auctionerrors.ErrNotOwner
		}
		if a.State.Terminal() {
			return auctionerrors.ErrAuctionEnded
		}
		a.State = models.StateClosed
		a.EndedAt = now
		return nil
	}
}

// applyBid appends bid if the auction is open, not hosted by the bidder and bid beats the highest value
func applyBid(a *models.Auction, bid models.Bid) error {
	if a.State.Terminal() {
		return auctionerrors.ErrAuctionEnded
	}
	if a.HostedBy(bid.BidderID) {
		return auctionerrors.ErrSelfBid
	}
	if highest := a.HighestValue(); bid.Value <= highest {
		return fmt.Errorf("%w - current highest bid is %d", auctionerrors.ErrBidTooLow, highest)
	}
	a.Bids = append(a.Bids, bid)
	return nil
}

func validateUID(uid string) error {
	if !protocol.IsUID(uid) {
		return fmt.Errorf("service: %w - invalid user id %q", auctionerrors.ErrValidation, uid)
	}
	return nil
}

func validateCredentials(uid, password string) error {
	if err := validateUID(uid); err != nil {
		return err
	}
	if !protocol.IsPassword(password) {
		return fmt.Errorf("service: %w - invalid password", auctionerrors.ErrValidation)
	}
	return nil
}

func validateAID(aid string) error {
	if !protocol.IsAID(aid) {
		return fmt.Errorf("service: %w - invalid auction id %q", auctionerrors.ErrValidation, aid)
	}
	return nil
}

func validateOpen(req OpenAuction) error {
	if err := validateCredentials(req.UID, req.Password); err != nil {
		return err
	}
	if !protocol.IsAuctionName(req.Name) {
		return fmt.Errorf("service: %w - invalid auction name %q", auctionerrors.ErrValidation, req.Name)
	}
	if !protocol.IsFileName(req.AssetName) {
		return fmt.Errorf("service: %w - invalid asset name %q", auctionerrors.ErrValidation, req.AssetName)
	}
	if req.StartValue < 1 || req.StartValue > protocol.MaxValue {
		return fmt.Errorf("service: %w - start value %d", auctionerrors.ErrValidation, req.StartValue)
	}
	if req.DurationSecs < 1 || req.DurationSecs > protocol.MaxDuration {
		return fmt.Errorf("service: %w - duration %d", auctionerrors.ErrValidation, req.DurationSecs)
	}
	if req.Asset == nil {
		return fmt.Errorf("service: %w - missing asset", auctionerrors.ErrValidation)
	}
	return nil
}
