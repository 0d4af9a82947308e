package helpers

import (
	"time"

	"auction-server/internal/models"
)

// Request/Response DTOs
type ListAuctionsQuery struct {
	State string `form:"state" binding:"omitempty,oneof=active ended"`
}

type AuctionSummary struct {
	AuctionID string `json:"auction_id"`
	HostID    string `json:"host_id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	Active    bool   `json:"active"`
}

type BidResponse struct {
	BidderID string `json:"bidder_id"`
	Value    int    `json:"value"`
	PlacedAt string `json:"placed_at"`
}

type AuctionRecordResponse struct {
	AuctionSummary
	AssetName    string        `json:"asset_name"`
	StartValue   int           `json:"start_value"`
	HighestValue int           `json:"highest_value"`
	DurationSecs int           `json:"duration_secs"`
	StartedAt    string        `json:"started_at"`
	EndedAt      string        `json:"ended_at,omitempty"`
	Bids         []BidResponse `json:"bids"`
}

func NewAuctionSummary(a models.Auction) AuctionSummary {
	return AuctionSummary{
		AuctionID: a.AuctionID,
		HostID:    a.HostID,
		Name:      a.Name,
		State:     a.State.String(),
		Active:    a.State == models.StateOpen,
	}
}

func NewAuctionRecordResponse(a models.Auction) AuctionRecordResponse {
	resp := AuctionRecordResponse{
		AuctionSummary: NewAuctionSummary(a),
		AssetName:      a.AssetName,
		StartValue:     a.StartValue,
		HighestValue:   a.HighestValue(),
		DurationSecs:   a.DurationSecs,
		StartedAt:      a.StartedAt.UTC().Format(time.RFC3339),
		Bids:           make([]BidResponse, 0, len(a.Bids)),
	}
	if !a.EndedAt.IsZero() {
		resp.EndedAt = a.EndedAt.UTC().Format(time.RFC3339)
	}
	for _, b := range a.Bids {
		resp.Bids = append(resp.Bids, BidResponse{
			BidderID: b.BidderID,
			Value:    b.Value,
			PlacedAt: b.PlacedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
