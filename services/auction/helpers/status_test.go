package helpers

import (
	"errors"
	"fmt"
	"testing"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/models"
	"auction-server/internal/protocol"

	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatus(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error { return fmt.Errorf("service: failed: %w", err) }

	tests := []struct {
		name    string
		reply   protocol.Kind
		err     error
		want    protocol.Status
		noReply bool
	}{
		{name: "logout_unregistered", reply: protocol.KindRLO, err: auctionerrors.ErrUserNotRegistered, want: protocol.StatusUNR},
		{name: "logout_not_logged_in", reply: protocol.KindRLO, err: auctionerrors.ErrNotLoggedIn, want: protocol.StatusNOK},
		{name: "logout_wrong_password", reply: protocol.KindRLO, err: auctionerrors.ErrWrongPassword, want: protocol.StatusNOK},
		{name: "unregister_unregistered", reply: protocol.KindRUR, err: wrap(auctionerrors.ErrUserNotRegistered), want: protocol.StatusUNR},
		{name: "open_not_logged_in", reply: protocol.KindROA, err: auctionerrors.ErrNotLoggedIn, want: protocol.StatusNOK},
		{name: "open_unregistered", reply: protocol.KindROA, err: wrap(auctionerrors.ErrUserNotRegistered), want: protocol.StatusNOK},
		{name: "open_wrong_password", reply: protocol.KindROA, err: auctionerrors.ErrWrongPassword, want: protocol.StatusNOK},
		{name: "open_ids_exhausted", reply: protocol.KindROA, err: auctionerrors.ErrAuctionLimit, want: protocol.StatusNOK},
		{name: "close_unknown_user", reply: protocol.KindRCL, err: wrap(auctionerrors.ErrUserNotRegistered), want: protocol.StatusNLG},
		{name: "close_wrong_password", reply: protocol.KindRCL, err: wrap(auctionerrors.ErrWrongPassword), want: protocol.StatusNLG},
		{name: "close_not_logged_in", reply: protocol.KindRCL, err: auctionerrors.ErrNotLoggedIn, want: protocol.StatusNLG},
		{name: "close_unknown_auction", reply: protocol.KindRCL, err: wrap(auctionerrors.ErrAuctionNotFound), want: protocol.StatusEAU},
		{name: "close_not_owner", reply: protocol.KindRCL, err: auctionerrors.ErrNotOwner, want: protocol.StatusEOW},
		{name: "close_ended", reply: protocol.KindRCL, err: auctionerrors.ErrAuctionEnded, want: protocol.StatusEND},
		{name: "my_auctions_not_logged_in", reply: protocol.KindRMA, err: auctionerrors.ErrNotLoggedIn, want: protocol.StatusNLG},
		{name: "my_auctions_none", reply: protocol.KindRMA, err: auctionerrors.ErrNoAuctions, want: protocol.StatusNOK},
		{name: "my_bids_unregistered", reply: protocol.KindRMB, err: auctionerrors.ErrUserNotRegistered, want: protocol.StatusNLG},
		{name: "list_none", reply: protocol.KindRLS, err: auctionerrors.ErrNoAuctions, want: protocol.StatusNOK},
		{name: "bid_not_logged_in", reply: protocol.KindRBD, err: auctionerrors.ErrNotLoggedIn, want: protocol.StatusNLG},
		{name: "bid_unknown_auction", reply: protocol.KindRBD, err: auctionerrors.ErrAuctionNotFound, want: protocol.StatusNOK},
		{name: "bid_ended", reply: protocol.KindRBD, err: wrap(auctionerrors.ErrAuctionEnded), want: protocol.StatusNOK},
		{name: "bid_self", reply: protocol.KindRBD, err: auctionerrors.ErrSelfBid, want: protocol.StatusILG},
		{name: "bid_too_low", reply: protocol.KindRBD, err: wrap(auctionerrors.ErrBidTooLow), want: protocol.StatusREF},
		{name: "record_unknown", reply: protocol.KindRRC, err: auctionerrors.ErrAuctionNotFound, want: protocol.StatusNOK},
		{name: "asset_missing", reply: protocol.KindRSA, err: auctionerrors.ErrAssetNotFound, want: protocol.StatusNOK},
		{name: "internal_failure", reply: protocol.KindRBD, err: errors.New("db failure"), want: protocol.StatusNOK},
		{name: "close_internal_failure", reply: protocol.KindRCL, err: errors.New("db failure"), noReply: true},
		{name: "format_error", reply: protocol.KindRBD, err: auctionerrors.ErrFormat, noReply: true},
		{name: "io_error", reply: protocol.KindROA, err: wrap(auctionerrors.ErrIO), noReply: true},
		{name: "validation_error", reply: protocol.KindRLI, err: auctionerrors.ErrValidation, noReply: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, ok := MapErrorToStatus(tc.reply, tc.err)
			require.Equal(t, !tc.noReply, ok)
			if ok {
				require.Equal(t, tc.want, status)
				require.True(t, protocol.ValidStatus(tc.reply, status), "status %s outside %s vocabulary", status, tc.reply)
			}
		})
	}
}

func TestLoginStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, protocol.StatusREG, LoginStatus(models.LoginCreated))
	require.Equal(t, protocol.StatusOK, LoginStatus(models.LoginAuthenticated))
	require.Equal(t, protocol.StatusNOK, LoginStatus(models.LoginRejected))
}
