package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	auction "auction-server/internal/auctionService"
	"auction-server/internal/auctionerrors"
	"auction-server/internal/filetransfer"
	"auction-server/internal/metrics"
	"auction-server/internal/models"
	"auction-server/internal/protocol"
	"auction-server/services/auction/helpers"
	"auction-server/utils"
)

//go:generate mockgen -source=protocol_handler.go -destination=mock_handler.go -package=handler

const (
	TransportUDP = "udp"
	TransportTCP = "tcp"
)

type AuctionServiceInterface interface {
	Login(ctx context.Context, uid, password string) (models.LoginResult, error)
	Logout(ctx context.Context, uid, password string) error
	Unregister(ctx context.Context, uid, password string) error
	StageAsset() (auction.Upload, error)
	OpenAuction(ctx context.Context, req auction.OpenAuction) (models.Auction, error)
	CloseAuction(ctx context.Context, uid, password, aid string) (models.Auction, error)
	PlaceBid(ctx context.Context, uid, password, aid string, value int) (models.Bid, error)
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	MyAuctions(ctx context.Context, uid string) ([]models.Auction, error)
	MyBids(ctx context.Context, uid string) ([]models.Auction, error)
	ShowRecord(ctx context.Context, aid string) (models.Auction, error)
	ShowAsset(ctx context.Context, aid string) (auction.AssetDownload, error)
}

// Stream is an accepted connection carrying one request and its reply
type Stream interface {
	io.Writer
	Decoder() *protocol.Decoder
}

// ProtocolHandler serves decoded protocol requests against the auction service
type ProtocolHandler struct {
	service AuctionServiceInterface
}

func NewProtocolHandler(service AuctionServiceInterface) *ProtocolHandler {
	return &ProtocolHandler{service: service}
}

// exchange collects what gets logged and measured about one request
type exchange struct {
	transport string
	kind      protocol.Kind
	status    string
	replied   bool
	started   time.Time
	fields    map[string]any
}

func newExchange(transport string) *exchange {
	return &exchange{
		transport: transport,
		started:   time.Now(),
		fields: map[string]any{
			"request_id": utils.GenerateID(),
			"transport":  transport,
		},
	}
}

func (ex *exchange) finish(handlerName string, err error) {
	elapsed := time.Since(ex.started)
	if ex.status == "" {
		ex.status = "none"
	}
	ex.fields["kind"] = ex.kind.String()
	ex.fields["status"] = ex.status
	ex.fields["latency_ms"] = elapsed.Milliseconds()
	metrics.RecordRequest(ex.transport, ex.kind.String(), ex.status, elapsed)

	if err != nil {
		ex.fields["error"] = err.Error()
		utils.Warn(handlerName+": request failed", ex.fields)
		return
	}
	helpers.LogSuccess(handlerName, "request served", ex.fields)
}

// HandleDatagram serves one UDP request and returns the reply datagram
func (h *ProtocolHandler) HandleDatagram(ctx context.Context, data []byte) []byte {
	ex := newExchange(TransportUDP)

	req, err := protocol.Decode(data)
	if err == nil {
		ex.kind = req.Kind()
		if !req.Kind().IsRequest() || req.Kind().OverTCP() {
			err = fmt.Errorf("%w: %s is not a datagram request", auctionerrors.ErrFormat, req.Kind())
		}
	}

	var reply protocol.Message
	if err == nil {
		reply, err = h.dispatch(ctx, req, ex)
	}

	var out []byte
	if err == nil {
		out, err = protocol.Encode(reply)
	}
	if err != nil {
		reply = &protocol.ErrorReply{}
		out, _ = protocol.Encode(reply)
	}
	ex.status = replyStatus(reply)
	ex.finish("HandleDatagram", err)
	return out
}

// HandleStream serves one TCP request. A malformed request is answered with ERR
// unless a reply was already started; transport failures are not answered.
func (h *ProtocolHandler) HandleStream(ctx context.Context, s Stream) {
	ex := newExchange(TransportTCP)

	err := h.serveStream(ctx, s, ex)
	if err != nil && !ex.replied && !errors.Is(err, auctionerrors.ErrIO) {
		if sendErr := h.send(s, &protocol.ErrorReply{}, ex); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
	}
	ex.finish("HandleStream", err)
}

func (h *ProtocolHandler) serveStream(ctx context.Context, s Stream, ex *exchange) error {
	req, err := s.Decoder().ReadMessage()
	if err != nil {
		return err
	}
	ex.kind = req.Kind()
	if !req.Kind().IsRequest() || !req.Kind().OverTCP() {
		return fmt.Errorf("%w: %s is not a stream request", auctionerrors.ErrFormat, req.Kind())
	}

	var reply protocol.Message
	switch r := req.(type) {
	case *protocol.OpenRequest:
		reply, err = h.openAuction(ctx, s.Decoder(), r, ex)
	case *protocol.ShowAssetRequest:
		return h.showAsset(ctx, s, r, ex)
	default:
		reply, err = h.dispatch(ctx, req, ex)
	}
	if err != nil {
		return err
	}
	return h.send(s, reply, ex)
}

func (h *ProtocolHandler) send(w io.Writer, reply protocol.Message, ex *exchange) error {
	data, err := protocol.Encode(reply)
	if err != nil {
		return err
	}
	ex.replied = true
	ex.status = replyStatus(reply)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", reply.Kind(), err)
	}
	return nil
}

// dispatch runs the requests whose replies carry no file
func (h *ProtocolHandler) dispatch(ctx context.Context, req protocol.Message, ex *exchange) (protocol.Message, error) {
	switch r := req.(type) {
	case *protocol.LoginRequest:
		ex.fields["uid"] = r.UID
		result, err := h.service.Login(ctx, r.UID, r.Password)
		if err != nil {
			return statusReply(protocol.KindRLI, protocol.StatusOK, err)
		}
		return &protocol.StatusReply{Of: protocol.KindRLI, Status: helpers.LoginStatus(result)}, nil

	case *protocol.LogoutRequest:
		ex.fields["uid"] = r.UID
		return statusReply(protocol.KindRLO, protocol.StatusOK, h.service.Logout(ctx, r.UID, r.Password))

	case *protocol.UnregisterRequest:
		ex.fields["uid"] = r.UID
		return statusReply(protocol.KindRUR, protocol.StatusOK, h.service.Unregister(ctx, r.UID, r.Password))

	case *protocol.MyAuctionsRequest:
		ex.fields["uid"] = r.UID
		auctions, err := h.service.MyAuctions(ctx, r.UID)
		return listReply(protocol.KindRMA, auctions, err)

	case *protocol.MyBidsRequest:
		ex.fields["uid"] = r.UID
		auctions, err := h.service.MyBids(ctx, r.UID)
		return listReply(protocol.KindRMB, auctions, err)

	case *protocol.ListRequest:
		auctions, err := h.service.ListAuctions(ctx)
		return listReply(protocol.KindRLS, auctions, err)

	case *protocol.ShowRecordRequest:
		ex.fields["aid"] = r.AID
		a, err := h.service.ShowRecord(ctx, r.AID)
		if err != nil {
			status, ok := helpers.MapErrorToStatus(protocol.KindRRC, err)
			if !ok {
				return nil, err
			}
			return &protocol.RecordReply{Status: status}, nil
		}
		return &protocol.RecordReply{Status: protocol.StatusOK, Record: recordOf(a)}, nil

	case *protocol.CloseRequest:
		ex.fields["uid"] = r.UID
		ex.fields["aid"] = r.AID
		_, err := h.service.CloseAuction(ctx, r.UID, r.Password, r.AID)
		return statusReply(protocol.KindRCL, protocol.StatusOK, err)

	case *protocol.BidRequest:
		ex.fields["uid"] = r.UID
		ex.fields["aid"] = r.AID
		ex.fields["value"] = r.Value
		_, err := h.service.PlaceBid(ctx, r.UID, r.Password, r.AID, r.Value)
		return statusReply(protocol.KindRBD, protocol.StatusACC, err)
	}
	return nil, fmt.Errorf("%w: no handler for %s", auctionerrors.ErrFormat, req.Kind())
}

// openAuction receives the asset that follows the OPA header and opens the auction
func (h *ProtocolHandler) openAuction(ctx context.Context, d *protocol.Decoder, r *protocol.OpenRequest, ex *exchange) (protocol.Message, error) {
	ex.fields["uid"] = r.UID

	upload, err := h.service.StageAsset()
	if err != nil {
		ex.fields["error"] = err.Error()
		return &protocol.OpenReply{Status: protocol.StatusNOK}, nil
	}

	progress := filetransfer.NewProgress(nil)
	info, err := filetransfer.Receive(d, upload, progress)
	metrics.RecordFileBytes("upload", progress.Transferred())
	if err != nil {
		_ = upload.Discard()
		return nil, fmt.Errorf("receive asset: %w", err)
	}
	ex.fields["asset_size"] = info.Size

	a, err := h.service.OpenAuction(ctx, auction.OpenAuction{
		UID:          r.UID,
		Password:     r.Password,
		Name:         r.Name,
		StartValue:   r.StartValue,
		DurationSecs: r.DurationSecs,
		AssetName:    info.Name,
		Asset:        upload,
	})
	if err != nil {
		status, ok := helpers.MapErrorToStatus(protocol.KindROA, err)
		if !ok {
			return nil, err
		}
		ex.fields["reason"] = err.Error()
		return &protocol.OpenReply{Status: status}, nil
	}
	ex.fields["aid"] = a.AuctionID
	return &protocol.OpenReply{Status: protocol.StatusOK, AID: a.AuctionID}, nil
}

// showAsset replies with the asset header followed by its bytes
func (h *ProtocolHandler) showAsset(ctx context.Context, s Stream, r *protocol.ShowAssetRequest, ex *exchange) error {
	ex.fields["aid"] = r.AID

	download, err := h.service.ShowAsset(ctx, r.AID)
	if err != nil {
		status, ok := helpers.MapErrorToStatus(protocol.KindRSA, err)
		if !ok {
			return err
		}
		ex.fields["reason"] = err.Error()
		return h.send(s, &protocol.ShowAssetReply{Status: status}, ex)
	}
	defer download.Body.Close()

	if err := h.send(s, &protocol.ShowAssetReply{Status: protocol.StatusOK}, ex); err != nil {
		return err
	}
	progress := filetransfer.NewProgress(nil)
	err = filetransfer.Send(s, filetransfer.FileInfo{Name: download.Name, Size: download.Size}, download.Body, progress)
	metrics.RecordFileBytes("download", progress.Transferred())
	ex.fields["asset_size"] = download.Size
	return err
}

// statusReply answers kind with ok on success and the mapped status otherwise
func statusReply(kind protocol.Kind, ok protocol.Status, err error) (protocol.Message, error) {
	if err == nil {
		return &protocol.StatusReply{Of: kind, Status: ok}, nil
	}
	status, replied := helpers.MapErrorToStatus(kind, err)
	if !replied {
		return nil, err
	}
	return &protocol.StatusReply{Of: kind, Status: status}, nil
}

func listReply(kind protocol.Kind, auctions []models.Auction, err error) (protocol.Message, error) {
	if err != nil {
		status, ok := helpers.MapErrorToStatus(kind, err)
		if !ok {
			return nil, err
		}
		return &protocol.ListReply{Of: kind, Status: status}, nil
	}

	entries := make([]protocol.AuctionEntry, 0, len(auctions))
	for _, a := range auctions {
		entries = append(entries, protocol.AuctionEntry{AID: a.AuctionID, Active: a.State == models.StateOpen})
	}
	return &protocol.ListReply{Of: kind, Status: protocol.StatusOK, Auctions: entries}, nil
}

// recordOf renders an auction for RRC, keeping the most recent bids that fit
func recordOf(a models.Auction) *protocol.Record {
	bids := a.Bids
	if len(bids) > protocol.MaxRecordBids {
		bids = bids[len(bids)-protocol.MaxRecordBids:]
	}

	record := &protocol.Record{
		HostUID:      a.HostID,
		Name:         a.Name,
		AssetName:    a.AssetName,
		StartValue:   a.StartValue,
		StartedAt:    a.StartedAt,
		DurationSecs: a.DurationSecs,
	}
	for _, b := range bids {
		record.Bids = append(record.Bids, protocol.BidEntry{
			BidderUID: b.BidderID,
			Value:     b.Value,
			PlacedAt:  b.PlacedAt,
			Secs:      int(b.PlacedAt.Sub(a.StartedAt) / time.Second),
		})
	}
	if a.State.Terminal() {
		record.End = &protocol.EndEntry{EndedAt: a.EndedAt, Secs: a.EndSeconds()}
	}
	return record
}

func replyStatus(m protocol.Message) string {
	switch r := m.(type) {
	case *protocol.StatusReply:
		return string(r.Status)
	case *protocol.OpenReply:
		return string(r.Status)
	case *protocol.ListReply:
		return string(r.Status)
	case *protocol.RecordReply:
		return string(r.Status)
	case *protocol.ShowAssetReply:
		return string(r.Status)
	case *protocol.ErrorReply:
		return protocol.KindERR.String()
	}
	return ""
}
