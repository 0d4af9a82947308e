package auctionerrors

import "errors"

// Protocol-level errors
var (
	ErrFormat     = errors.New("malformed message")
	ErrIO         = errors.New("transport failure")
	ErrValidation = errors.New("field out of bounds")
)

// Repository-level errors
var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionExists     = errors.New("auction already exists")
	ErrAuctionLimit      = errors.New("auction identifiers exhausted")
	ErrNoAuctions        = errors.New("no auctions found")
	ErrAssetNotFound     = errors.New("asset not found")
)

// business logic errors
var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNotLoggedIn   = errors.New("user not logged in")
	ErrNotOwner      = errors.New("auction not owned by user")
	ErrAuctionEnded  = errors.New("auction already ended")
	ErrSelfBid       = errors.New("bid on own auction")
	ErrBidTooLow     = errors.New("bid amount too low")
)

// client session errors
var (
	ErrSessionActive = errors.New("a user is already logged in")
	ErrNoSession     = errors.New("no user logged in")
)
