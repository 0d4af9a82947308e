package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	auction "auction-server/internal/auctionService"
	"auction-server/internal/auctionerrors"
	"auction-server/internal/models"
	"auction-server/internal/protocol"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// fakeUpload collects an uploaded asset in memory
type fakeUpload struct {
	bytes.Buffer
	committed string
	discarded bool
}

func (u *fakeUpload) Commit(aid string) error {
	u.committed = aid
	return nil
}

func (u *fakeUpload) Discard() error {
	u.discarded = true
	return nil
}

// bufferStream feeds a fixed request and records everything written back
type bufferStream struct {
	dec *protocol.Decoder
	out bytes.Buffer
}

func newBufferStream(input string) *bufferStream {
	return &bufferStream{dec: protocol.NewDecoder(strings.NewReader(input))}
}

func (s *bufferStream) Decoder() *protocol.Decoder  { return s.dec }
func (s *bufferStream) Write(p []byte) (int, error) { return s.out.Write(p) }

var started = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// Test HandleDatagram
func TestHandleDatagram(t *testing.T) {
	tests := []struct {
		name      string
		request   string
		mockSetup func(m *MockAuctionServiceInterface)
		expected  string
	}{
		{
			name:    "login_creates_user",
			request: "LIN 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "123456", "abc12345").Return(models.LoginCreated, nil)
			},
			expected: "RLI REG\n",
		},
		{
			name:    "login_authenticated",
			request: "LIN 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "123456", "abc12345").Return(models.LoginAuthenticated, nil)
			},
			expected: "RLI OK\n",
		},
		{
			name:    "login_rejected",
			request: "LIN 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "123456", "abc12345").Return(models.LoginRejected, nil)
			},
			expected: "RLI NOK\n",
		},
		{
			name:    "logout_unknown_user",
			request: "LOU 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Logout(gomock.Any(), "123456", "abc12345").
					Return(fmt.Errorf("service: logout: %w", auctionerrors.ErrUserNotRegistered))
			},
			expected: "RLO UNR\n",
		},
		{
			name:    "logout_not_logged_in",
			request: "LOU 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Logout(gomock.Any(), "123456", "abc12345").Return(auctionerrors.ErrNotLoggedIn)
			},
			expected: "RLO NOK\n",
		},
		{
			name:    "unregister_ok",
			request: "UNR 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Unregister(gomock.Any(), "123456", "abc12345").Return(nil)
			},
			expected: "RUR OK\n",
		},
		{
			name:    "my_auctions",
			request: "LMA 123456\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().MyAuctions(gomock.Any(), "123456").Return([]models.Auction{
					{AuctionID: "001", State: models.StateOpen},
					{AuctionID: "002", State: models.StateClosed},
					{AuctionID: "003", State: models.StateExpired},
				}, nil)
			},
			expected: "RMA OK 001 1 002 0 003 0\n",
		},
		{
			name:    "my_auctions_none",
			request: "LMA 123456\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().MyAuctions(gomock.Any(), "123456").Return(nil, auctionerrors.ErrNoAuctions)
			},
			expected: "RMA NOK\n",
		},
		{
			name:    "my_bids_not_logged_in",
			request: "LMB 123456\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().MyBids(gomock.Any(), "123456").Return(nil, auctionerrors.ErrNotLoggedIn)
			},
			expected: "RMB NLG\n",
		},
		{
			name:    "list_empty",
			request: "LST\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ListAuctions(gomock.Any()).Return(nil, auctionerrors.ErrNoAuctions)
			},
			expected: "RLS NOK\n",
		},
		{
			name:    "show_record_closed",
			request: "SRC 001\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ShowRecord(gomock.Any(), "001").Return(models.Auction{
					AuctionID:    "001",
					HostID:       "123456",
					Name:         "bike",
					AssetName:    "bike.png",
					StartValue:   100,
					DurationSecs: 60,
					StartedAt:    started,
					State:        models.StateClosed,
					EndedAt:      started.Add(45 * time.Second),
					Bids: []models.Bid{
						{AuctionID: "001", BidderID: "111111", Value: 150, PlacedAt: started.Add(10 * time.Second)},
					},
				}, nil)
			},
			expected: "RRC OK 123456 bike bike.png 100 2026-10-18 12:00:00 60" +
				" B 111111 150 2026-10-18 12:00:10 10" +
				" E 2026-10-18 12:00:45 45\n",
		},
		{
			name:    "show_record_missing",
			request: "SRC 042\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ShowRecord(gomock.Any(), "042").Return(models.Auction{}, auctionerrors.ErrAuctionNotFound)
			},
			expected: "RRC NOK\n",
		},
		{
			name:     "malformed_uid",
			request:  "LIN 12345 abc12345\n",
			expected: "ERR\n",
		},
		{
			name:     "unknown_command",
			request:  "XYZ 123456\n",
			expected: "ERR\n",
		},
		{
			name:     "stream_command_over_datagram",
			request:  "CLS 123456 abc12345 001\n",
			expected: "ERR\n",
		},
		{
			name:     "reply_sent_as_request",
			request:  "RLI OK\n",
			expected: "ERR\n",
		},
		{
			name:    "service_validation_error",
			request: "LIN 123456 abc12345\n",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Login(gomock.Any(), "123456", "abc12345").Return(models.LoginRejected, auctionerrors.ErrValidation)
			},
			expected: "ERR\n",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			if tc.mockSetup != nil {
				tc.mockSetup(mockService)
			}
			handler := NewProtocolHandler(mockService)

			reply := handler.HandleDatagram(context.Background(), []byte(tc.request))
			require.Equal(t, tc.expected, string(reply))
		})
	}
}

// Tests that a record reply carries only the most recent bids
func TestHandleDatagram_RecordKeepsLatestBids(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := models.Auction{
		AuctionID:    "007",
		HostID:       "123456",
		Name:         "lamp",
		AssetName:    "lamp.jpg",
		StartValue:   10,
		DurationSecs: 3600,
		StartedAt:    started,
		State:        models.StateOpen,
	}
	for i := 0; i < protocol.MaxRecordBids+10; i++ {
		a.Bids = append(a.Bids, models.Bid{
			AuctionID: "007",
			BidderID:  "654321",
			Value:     11 + i,
			PlacedAt:  started.Add(time.Duration(i) * time.Second),
		})
	}

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().ShowRecord(gomock.Any(), "007").Return(a, nil)

	reply := NewProtocolHandler(mockService).HandleDatagram(context.Background(), []byte("SRC 007\n"))

	msg, err := protocol.DecodeAs(reply, protocol.KindRRC)
	require.NoError(t, err)
	record := msg.(*protocol.RecordReply).Record
	require.NotNil(t, record)
	require.Len(t, record.Bids, protocol.MaxRecordBids)
	require.Equal(t, 21, record.Bids[0].Value)
	require.Equal(t, 10, record.Bids[0].Secs)
	require.Equal(t, 11+protocol.MaxRecordBids+9, record.Bids[protocol.MaxRecordBids-1].Value)
	require.Nil(t, record.End)
}

// Test HandleStream
func TestHandleStream(t *testing.T) {
	tests := []struct {
		name      string
		request   string
		mockSetup func(m *MockAuctionServiceInterface, upload *fakeUpload)
		expected  string
		validate  func(t *testing.T, upload *fakeUpload)
	}{
		{
			name:    "open_auction",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hello\n",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
				m.EXPECT().OpenAuction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req auction.OpenAuction) (models.Auction, error) {
						require.Equal(t, "123456", req.UID)
						require.Equal(t, "abc12345", req.Password)
						require.Equal(t, "bike", req.Name)
						require.Equal(t, 100, req.StartValue)
						require.Equal(t, 60, req.DurationSecs)
						require.Equal(t, "bike.png", req.AssetName)
						require.Equal(t, upload, req.Asset)
						return models.Auction{AuctionID: "001"}, nil
					})
			},
			expected: "ROA OK 001\n",
			validate: func(t *testing.T, upload *fakeUpload) {
				require.Equal(t, "hello", upload.String())
				require.False(t, upload.discarded)
			},
		},
		{
			name:    "open_auction_not_logged_in",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hello\n",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
				m.EXPECT().OpenAuction(gomock.Any(), gomock.Any()).
					Return(models.Auction{}, fmt.Errorf("service: open auction: %w", auctionerrors.ErrNotLoggedIn))
			},
			expected: "ROA NOK\n",
		},
		{
			name:    "open_auction_unregistered_host",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hello\n",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
				m.EXPECT().OpenAuction(gomock.Any(), gomock.Any()).
					Return(models.Auction{}, fmt.Errorf("service: open auction: %w", auctionerrors.ErrUserNotRegistered))
			},
			expected: "ROA NOK\n",
		},
		{
			name:    "open_auction_limit",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hello\n",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
				m.EXPECT().OpenAuction(gomock.Any(), gomock.Any()).Return(models.Auction{}, auctionerrors.ErrAuctionLimit)
			},
			expected: "ROA NOK\n",
		},
		{
			name:    "open_auction_truncated_file",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hel",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
			},
			expected: "",
			validate: func(t *testing.T, upload *fakeUpload) {
				require.True(t, upload.discarded)
			},
		},
		{
			name:    "open_auction_empty_asset",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 0 \n",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
			},
			expected: "ERR\n",
			validate: func(t *testing.T, upload *fakeUpload) {
				require.True(t, upload.discarded)
			},
		},
		{
			name:    "open_auction_missing_terminator",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 helloX",
			mockSetup: func(m *MockAuctionServiceInterface, upload *fakeUpload) {
				m.EXPECT().StageAsset().Return(upload, nil)
			},
			expected: "ERR\n",
			validate: func(t *testing.T, upload *fakeUpload) {
				require.True(t, upload.discarded)
			},
		},
		{
			name:    "open_auction_staging_fails",
			request: "OPA 123456 abc12345 bike 100 60 bike.png 5 hello\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().StageAsset().Return(nil, errors.New("disk full"))
			},
			expected: "ROA NOK\n",
		},
		{
			name:    "close_ended",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{}, auctionerrors.ErrAuctionEnded)
			},
			expected: "RCL END\n",
		},
		{
			name:    "close_not_owner",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{}, auctionerrors.ErrNotOwner)
			},
			expected: "RCL EOW\n",
		},
		{
			name:    "close_wrong_password",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{}, fmt.Errorf("service: close auction: %w", auctionerrors.ErrWrongPassword))
			},
			expected: "RCL NLG\n",
		},
		{
			name:    "close_unknown_user",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{}, auctionerrors.ErrUserNotRegistered)
			},
			expected: "RCL NLG\n",
		},
		{
			name:    "close_store_failure",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{}, errors.New("disk full"))
			},
			expected: "ERR\n",
		},
		{
			name:    "close_ok",
			request: "CLS 123456 abc12345 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().CloseAuction(gomock.Any(), "123456", "abc12345", "001").
					Return(models.Auction{AuctionID: "001", State: models.StateClosed}, nil)
			},
			expected: "RCL OK\n",
		},
		{
			name:    "bid_accepted",
			request: "BID 654321 pass9999 001 150\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().PlaceBid(gomock.Any(), "654321", "pass9999", "001", 150).
					Return(models.Bid{AuctionID: "001", BidderID: "654321", Value: 150}, nil)
			},
			expected: "RBD ACC\n",
		},
		{
			name:    "bid_refused",
			request: "BID 654321 pass9999 001 50\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().PlaceBid(gomock.Any(), "654321", "pass9999", "001", 50).
					Return(models.Bid{}, auctionerrors.ErrBidTooLow)
			},
			expected: "RBD REF\n",
		},
		{
			name:    "bid_on_own_auction",
			request: "BID 123456 abc12345 001 500\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().PlaceBid(gomock.Any(), "123456", "abc12345", "001", 500).
					Return(models.Bid{}, auctionerrors.ErrSelfBid)
			},
			expected: "RBD ILG\n",
		},
		{
			name:    "show_asset",
			request: "SAS 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().ShowAsset(gomock.Any(), "001").Return(auction.AssetDownload{
					Name: "bike.png",
					Size: 5,
					Body: io.NopCloser(strings.NewReader("hello")),
				}, nil)
			},
			expected: "RSA OK bike.png 5 hello\n",
		},
		{
			name:    "show_asset_missing",
			request: "SAS 001\n",
			mockSetup: func(m *MockAuctionServiceInterface, _ *fakeUpload) {
				m.EXPECT().ShowAsset(gomock.Any(), "001").Return(auction.AssetDownload{}, auctionerrors.ErrAssetNotFound)
			},
			expected: "RSA NOK\n",
		},
		{
			name:     "datagram_command_over_stream",
			request:  "LIN 123456 abc12345\n",
			expected: "ERR\n",
		},
		{
			name:     "malformed_aid",
			request:  "BID 123456 abc12345 01 100\n",
			expected: "ERR\n",
		},
		{
			name:     "connection_closed_early",
			request:  "",
			expected: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			upload := &fakeUpload{}
			if tc.mockSetup != nil {
				tc.mockSetup(mockService, upload)
			}

			stream := newBufferStream(tc.request)
			NewProtocolHandler(mockService).HandleStream(context.Background(), stream)

			require.Equal(t, tc.expected, stream.out.String())
			if tc.validate != nil {
				tc.validate(t, upload)
			}
		})
	}
}
