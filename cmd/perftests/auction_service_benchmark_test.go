package perftests

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/protocol"
	"auction-server/services/auction/handler"
)

// Benchmark 1: PlaceBid - Isolated Auctions (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	const numAuctions = 500
	svc, aids := setupService(b, numAuctions, 1)
	ctx := context.Background()
	uid := bidderUID(0)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		aid := aids[i%numAuctions]
		value := 2 + (i/numAuctions)%(protocol.MaxValue-2)
		if _, err := svc.PlaceBid(ctx, uid, password, aid, value); err != nil && !errors.Is(err, auctionerrors.ErrBidTooLow) {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Auction (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedAuction(b *testing.B) {
	const numBidders = 64
	svc, aids := setupService(b, 1, numBidders)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 1
	var refused int64

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			uid := bidderUID(rnd.Intn(numBidders))
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1)) % protocol.MaxValue
			if _, err := svc.PlaceBid(ctx, uid, password, aids[0], int(nextBid)+1); err != nil {
				atomic.AddInt64(&refused, 1)
			}
		}
	})
	b.ReportMetric(float64(refused)/float64(b.N), "refused/op")
}

// Benchmark 3: ShowRecord - Concurrent reads of one auction with a full bid history
func Benchmark_ShowRecord_ConcurrentSharedAuction(b *testing.B) {
	svc, aids := setupService(b, 1, 1)
	ctx := context.Background()

	for j := 0; j < 100; j++ {
		if _, err := svc.PlaceBid(ctx, bidderUID(0), password, aids[0], 10+j); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.ShowRecord(ctx, aids[0]); err != nil {
				b.Errorf("failed to show record: %v", err)
				return
			}
		}
	})
}

// Benchmark 4: Mixed Workload (list readers + bidders concurrently)
func Benchmark_MixedWorkload_SharedAuction(b *testing.B) {
	const numBidders = 32
	svc, aids := setupService(b, 20, numBidders)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 1

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			if rnd.Intn(10) < 3 {
				uid := bidderUID(rnd.Intn(numBidders))
				nextBid := atomic.AddInt64(&lastBid, 1) % protocol.MaxValue
				_, _ = svc.PlaceBid(ctx, uid, password, aids[0], int(nextBid)+1)
				continue
			}
			if _, err := svc.ListAuctions(ctx); err != nil {
				b.Errorf("failed to list auctions: %v", err)
				return
			}
		}
	})
}

// Benchmark 5: Datagram requests through the protocol handler, no network
func Benchmark_HandleDatagram_ShowRecord(b *testing.B) {
	svc, aids := setupService(b, 1, 1)
	ctx := context.Background()
	for j := 0; j < protocol.MaxRecordBids; j++ {
		if _, err := svc.PlaceBid(ctx, bidderUID(0), password, aids[0], 10+j); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}
	h := handler.NewProtocolHandler(svc)
	request := []byte("SRC " + aids[0] + "\n")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		reply := h.HandleDatagram(ctx, request)
		if len(reply) < 7 || string(reply[:6]) != "RRC OK" {
			b.Fatalf("unexpected reply %q", reply)
		}
	}
}

// Benchmark 6: Wire codec on the largest datagram reply
func Benchmark_Codec_RecordReply(b *testing.B) {
	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	record := &protocol.Record{
		HostUID: hostUID, Name: "bike", AssetName: "bike.png", StartValue: 1,
		StartedAt: start, DurationSecs: 99999,
	}
	for j := 0; j < protocol.MaxRecordBids; j++ {
		record.Bids = append(record.Bids, protocol.BidEntry{
			BidderUID: bidderUID(j), Value: 10 + j, PlacedAt: start.Add(time.Duration(j) * time.Second), Secs: j,
		})
	}
	msg := &protocol.RecordReply{Status: protocol.StatusOK, Record: record}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		data, err := protocol.Encode(msg)
		if err != nil {
			b.Fatalf("encode: %v", err)
		}
		if _, err := protocol.DecodeAs(data, protocol.KindRRC); err != nil {
			b.Fatalf("decode: %v", err)
		}
	}
}
