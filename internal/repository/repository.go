package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"

	"auction-server/internal/auctionerrors"
	model "auction-server/internal/models"
)

// AuctionStore defines the durable record of users, auctions and bids.
// Mutations of one user or one auction are serialized; distinct keys do not block each other.
type AuctionStore interface {
	// LoginOrRegister logs uid in, registering it with password first if it is unknown or unregistered
	LoginOrRegister(ctx context.Context, uid, password string) (model.LoginResult, error)
	Logout(ctx context.Context, uid, password string) error
	Unregister(ctx context.Context, uid, password string) error
	// CheckCredentials succeeds if uid is registered, password matches and uid is logged in
	CheckCredentials(ctx context.Context, uid, password string) error
	// CheckSession succeeds if uid is registered and logged in
	CheckSession(ctx context.Context, uid string) error

	// NextAID allocates a fresh auction identifier. Identifiers are never reused.
	NextAID(ctx context.Context) (string, error)
	CreateAuction(ctx context.Context, auction model.Auction) error
	// UpdateAuction applies fn to a copy of the auction and stores the result if fn succeeds.
	// fn may change State and EndedAt and append bids.
	UpdateAuction(ctx context.Context, aid string, fn func(*model.Auction) error) (model.Auction, error)
	GetAuction(ctx context.Context, aid string) (model.Auction, error)
	// The list operations return auctions ordered by AID without their bids
	ListAuctions(ctx context.Context) ([]model.Auction, error)
	ListAuctionsByHost(ctx context.Context, uid string) ([]model.Auction, error)
	ListAuctionsBidByUser(ctx context.Context, uid string) ([]model.Auction, error)

	Close() error
}

func login(u *model.User, found bool, uid, password string) model.LoginResult {
	if !found || !u.Registered {
		*u = model.User{UserID: uid, Password: password, Registered: true, LoggedIn: true}
		return model.LoginCreated
	}
	if u.Password != password {
		return model.LoginRejected
	}
	u.LoggedIn = true
	return model.LoginAuthenticated
}

func verify(u model.User, found bool, password string) error {
	if !found || !u.Registered {
		return auctionerrors.ErrUserNotRegistered
	}
	if u.Password != password {
		return auctionerrors.ErrWrongPassword
	}
	if !u.LoggedIn {
		return auctionerrors.ErrNotLoggedIn
	}
	return nil
}

func logout(u *model.User, found bool, password string) error {
	if err := verify(*u, found, password); err != nil {
		return err
	}
	u.LoggedIn = false
	return nil
}

// unregister keeps the record so hosted auctions and bids still resolve
func unregister(u *model.User, found bool, password string) error {
	if err := verify(*u, found, password); err != nil {
		return err
	}
	u.LoggedIn = false
	u.Registered = false
	return nil
}

func checkSession(u model.User, found bool) error {
	if !found || !u.Registered {
		return auctionerrors.ErrUserNotRegistered
	}
	if !u.LoggedIn {
		return auctionerrors.ErrNotLoggedIn
	}
	return nil
}

func summary(a model.Auction) model.Auction {
	a.Bids = nil
	return a
}
