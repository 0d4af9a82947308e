package perftests

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"auction-server/internal/assets"
	auction "auction-server/internal/auctionService"
	"auction-server/internal/repository"
)

const (
	hostUID  = "100000"
	password = "bench123"
)

func bidderUID(i int) string {
	return fmt.Sprintf("%06d", 200000+i)
}

// setupService returns a memory-backed service with numAuctions open auctions
// hosted by hostUID and numBidders logged in bidders
func setupService(b *testing.B, numAuctions, numBidders int) (*auction.AuctionService, []string) {
	b.Helper()
	ctx := context.Background()

	store, err := assets.NewFileStore(assets.Config{Basedir: b.TempDir()})
	if err != nil {
		b.Fatalf("failed to create asset store: %v", err)
	}
	svc := auction.NewAuctionService(repository.NewMemoryRepo(), store, nil)

	if _, err := svc.Login(ctx, hostUID, password); err != nil {
		b.Fatalf("failed to log host in: %v", err)
	}
	for i := 0; i < numBidders; i++ {
		if _, err := svc.Login(ctx, bidderUID(i), password); err != nil {
			b.Fatalf("failed to log bidder in: %v", err)
		}
	}

	aids := make([]string, 0, numAuctions)
	for i := 0; i < numAuctions; i++ {
		upload, err := svc.StageAsset()
		if err != nil {
			b.Fatalf("failed to stage asset: %v", err)
		}
		if _, err := upload.Write([]byte(strings.Repeat("x", 512))); err != nil {
			b.Fatalf("failed to write asset: %v", err)
		}
		a, err := svc.OpenAuction(ctx, auction.OpenAuction{
			UID:          hostUID,
			Password:     password,
			Name:         fmt.Sprintf("lot%d", i),
			StartValue:   1,
			DurationSecs: 99999,
			AssetName:    "lot.bin",
			Asset:        upload,
		})
		if err != nil {
			b.Fatalf("failed to open auction: %v", err)
		}
		aids = append(aids, a.AuctionID)
	}
	return svc, aids
}
