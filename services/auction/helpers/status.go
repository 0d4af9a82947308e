package helpers

import (
	"errors"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/models"
	"auction-server/internal/protocol"
	"auction-server/utils"
)

// LoginStatus maps a login outcome to its RLI status
func LoginStatus(result models.LoginResult) protocol.Status {
	switch result {
	case models.LoginCreated:
		return protocol.StatusREG
	case models.LoginAuthenticated:
		return protocol.StatusOK
	default:
		return protocol.StatusNOK
	}
}

// MapErrorToStatus maps service errors to the status vocabulary of a reply kind.
// It returns false for errors that get no structured reply: malformed input, transport
// failures, and RCL failures its vocabulary cannot express.
func MapErrorToStatus(reply protocol.Kind, err error) (protocol.Status, bool) {
	if errors.Is(err, auctionerrors.ErrFormat) ||
		errors.Is(err, auctionerrors.ErrIO) ||
		errors.Is(err, auctionerrors.ErrValidation) {
		return "", false
	}

	notLoggedIn := errors.Is(err, auctionerrors.ErrNotLoggedIn) || errors.Is(err, auctionerrors.ErrUserNotRegistered)

	switch reply {
	case protocol.KindRLO, protocol.KindRUR:
		if errors.Is(err, auctionerrors.ErrUserNotRegistered) {
			return protocol.StatusUNR, true
		}
	case protocol.KindRMA, protocol.KindRMB:
		if notLoggedIn {
			return protocol.StatusNLG, true
		}
	case protocol.KindRCL:
		switch {
		case notLoggedIn || errors.Is(err, auctionerrors.ErrWrongPassword):
			return protocol.StatusNLG, true
		case errors.Is(err, auctionerrors.ErrAuctionNotFound):
			return protocol.StatusEAU, true
		case errors.Is(err, auctionerrors.ErrNotOwner):
			return protocol.StatusEOW, true
		case errors.Is(err, auctionerrors.ErrAuctionEnded):
			return protocol.StatusEND, true
		}
		// RCL has no NOK
		return "", false
	case protocol.KindRBD:
		switch {
		case notLoggedIn || errors.Is(err, auctionerrors.ErrWrongPassword):
			return protocol.StatusNLG, true
		case errors.Is(err, auctionerrors.ErrSelfBid):
			return protocol.StatusILG, true
		case errors.Is(err, auctionerrors.ErrBidTooLow):
			return protocol.StatusREF, true
		}
	}
	return protocol.StatusNOK, true
}

// LogSuccess is a small helper to standardize logging of served requests
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
