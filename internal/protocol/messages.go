package protocol

import "time"

// Message is one protocol message. The set of implementations is closed;
// callers switch on the concrete type or on Kind.
type Message interface {
	Kind() Kind
	encode(e *encoder) error
	decode(d *Decoder) error
}

func newMessage(k Kind) Message {
	switch k {
	case KindLIN:
		return &LoginRequest{}
	case KindLOU:
		return &LogoutRequest{}
	case KindUNR:
		return &UnregisterRequest{}
	case KindRLI, KindRLO, KindRUR, KindRCL, KindRBD:
		return &StatusReply{Of: k}
	case KindOPA:
		return &OpenRequest{}
	case KindROA:
		return &OpenReply{}
	case KindCLS:
		return &CloseRequest{}
	case KindLMA:
		return &MyAuctionsRequest{}
	case KindLMB:
		return &MyBidsRequest{}
	case KindLST:
		return &ListRequest{}
	case KindRMA, KindRMB, KindRLS:
		return &ListReply{Of: k}
	case KindBID:
		return &BidRequest{}
	case KindSAS:
		return &ShowAssetRequest{}
	case KindRSA:
		return &ShowAssetReply{}
	case KindSRC:
		return &ShowRecordRequest{}
	case KindRRC:
		return &RecordReply{}
	default:
		return &ErrorReply{}
	}
}

func encodeCredentials(e *encoder, uid, password string) error {
	if err := checkCredentials(uid, password); err != nil {
		return err
	}
	e.field(uid)
	e.field(password)
	return e.end()
}

func decodeCredentials(d *Decoder, uid, password *string) (err error) {
	if *uid, err = d.uid(); err != nil {
		return err
	}
	if *password, err = d.password(); err != nil {
		return err
	}
	return d.Expect('\n')
}

// LoginRequest logs a user in, registering it on first use
type LoginRequest struct {
	UID      string
	Password string
}

func (*LoginRequest) Kind() Kind                { return KindLIN }
func (m *LoginRequest) encode(e *encoder) error { return encodeCredentials(e, m.UID, m.Password) }
func (m *LoginRequest) decode(d *Decoder) error { return decodeCredentials(d, &m.UID, &m.Password) }

type LogoutRequest struct {
	UID      string
	Password string
}

func (*LogoutRequest) Kind() Kind                { return KindLOU }
func (m *LogoutRequest) encode(e *encoder) error { return encodeCredentials(e, m.UID, m.Password) }
func (m *LogoutRequest) decode(d *Decoder) error { return decodeCredentials(d, &m.UID, &m.Password) }

type UnregisterRequest struct {
	UID      string
	Password string
}

func (*UnregisterRequest) Kind() Kind                { return KindUNR }
func (m *UnregisterRequest) encode(e *encoder) error { return encodeCredentials(e, m.UID, m.Password) }
func (m *UnregisterRequest) decode(d *Decoder) error {
	return decodeCredentials(d, &m.UID, &m.Password)
}

// StatusReply carries a status only: RLI, RLO, RUR, RCL and RBD
type StatusReply struct {
	Of     Kind
	Status Status
}

func (m *StatusReply) Kind() Kind { return m.Of }

func (m *StatusReply) encode(e *encoder) error {
	if err := checkStatus(m.Of, m.Status); err != nil {
		return err
	}
	e.field(string(m.Status))
	return e.end()
}

func (m *StatusReply) decode(d *Decoder) (err error) {
	if m.Status, err = d.status(m.Of); err != nil {
		return err
	}
	return d.Expect('\n')
}

// OpenRequest is the OPA header. The asset follows as a file payload.
type OpenRequest struct {
	UID          string
	Password     string
	Name         string
	StartValue   int
	DurationSecs int
}

func (*OpenRequest) Kind() Kind { return KindOPA }

func (m *OpenRequest) encode(e *encoder) error {
	if err := checkCredentials(m.UID, m.Password); err != nil {
		return err
	}
	if !IsAuctionName(m.Name) {
		return invalid("auction name", m.Name)
	}
	if err := checkRange("start value", m.StartValue, 1, MaxValue); err != nil {
		return err
	}
	if err := checkRange("duration", m.DurationSecs, 1, MaxDuration); err != nil {
		return err
	}
	e.field(m.UID)
	e.field(m.Password)
	e.field(m.Name)
	e.number(m.StartValue)
	e.number(m.DurationSecs)
	return e.open()
}

func (m *OpenRequest) decode(d *Decoder) (err error) {
	if m.UID, err = d.uid(); err != nil {
		return err
	}
	if m.Password, err = d.password(); err != nil {
		return err
	}
	if m.Name, err = d.auctionName(); err != nil {
		return err
	}
	if m.StartValue, err = d.number(MaxValueDigits, 1, MaxValue); err != nil {
		return err
	}
	if m.DurationSecs, err = d.number(MaxDurationDigits, 1, MaxDuration); err != nil {
		return err
	}
	return d.Expect(' ')
}

// OpenReply is ROA. AID is set only with StatusOK.
type OpenReply struct {
	Status Status
	AID    string
}

func (*OpenReply) Kind() Kind { return KindROA }

func (m *OpenReply) encode(e *encoder) error {
	if err := checkStatus(KindROA, m.Status); err != nil {
		return err
	}
	e.field(string(m.Status))
	if m.Status == StatusOK {
		if err := checkAID(m.AID); err != nil {
			return err
		}
		e.field(m.AID)
	}
	return e.end()
}

func (m *OpenReply) decode(d *Decoder) (err error) {
	if m.Status, err = d.status(KindROA); err != nil {
		return err
	}
	if m.Status == StatusOK {
		if m.AID, err = d.aid(); err != nil {
			return err
		}
	}
	return d.Expect('\n')
}

type CloseRequest struct {
	UID      string
	Password string
	AID      string
}

func (*CloseRequest) Kind() Kind { return KindCLS }

func (m *CloseRequest) encode(e *encoder) error {
	if err := checkCredentials(m.UID, m.Password); err != nil {
		return err
	}
	if err := checkAID(m.AID); err != nil {
		return err
	}
	e.field(m.UID)
	e.field(m.Password)
	e.field(m.AID)
	return e.end()
}

func (m *CloseRequest) decode(d *Decoder) (err error) {
	if m.UID, err = d.uid(); err != nil {
		return err
	}
	if m.Password, err = d.password(); err != nil {
		return err
	}
	if m.AID, err = d.aid(); err != nil {
		return err
	}
	return d.Expect('\n')
}

type MyAuctionsRequest struct {
	UID string
}

func (*MyAuctionsRequest) Kind() Kind { return KindLMA }

func (m *MyAuctionsRequest) encode(e *encoder) error {
	if !IsUID(m.UID) {
		return invalid("uid", m.UID)
	}
	e.field(m.UID)
	return e.end()
}

func (m *MyAuctionsRequest) decode(d *Decoder) (err error) {
	if m.UID, err = d.uid(); err != nil {
		return err
	}
	return d.Expect('\n')
}

type MyBidsRequest struct {
	UID string
}

func (*MyBidsRequest) Kind() Kind { return KindLMB }

func (m *MyBidsRequest) encode(e *encoder) error {
	if !IsUID(m.UID) {
		return invalid("uid", m.UID)
	}
	e.field(m.UID)
	return e.end()
}

func (m *MyBidsRequest) decode(d *Decoder) (err error) {
	if m.UID, err = d.uid(); err != nil {
		return err
	}
	return d.Expect('\n')
}

type ListRequest struct{}

func (*ListRequest) Kind() Kind              { return KindLST }
func (*ListRequest) encode(e *encoder) error { return e.end() }
func (*ListRequest) decode(d *Decoder) error { return d.Expect('\n') }

// AuctionEntry is one `<AID> <state>` sub-record of a listing
type AuctionEntry struct {
	AID    string
	Active bool
}

// ListReply carries an auction listing: RMA, RMB and RLS.
// Auctions is only encoded with StatusOK and may be empty.
type ListReply struct {
	Of       Kind
	Status   Status
	Auctions []AuctionEntry
}

func (m *ListReply) Kind() Kind { return m.Of }

func (m *ListReply) encode(e *encoder) error {
	if err := checkStatus(m.Of, m.Status); err != nil {
		return err
	}
	if m.Status != StatusOK && len(m.Auctions) > 0 {
		return invalid("listing with status", m.Status)
	}
	if len(m.Auctions) > MaxAID {
		return invalid("listing length", len(m.Auctions))
	}
	e.field(string(m.Status))
	for _, a := range m.Auctions {
		if err := checkAID(a.AID); err != nil {
			return err
		}
		e.field(a.AID)
		if a.Active {
			e.field("1")
		} else {
			e.field("0")
		}
	}
	return e.end()
}

func (m *ListReply) decode(d *Decoder) (err error) {
	if m.Status, err = d.status(m.Of); err != nil {
		return err
	}
	if m.Status != StatusOK {
		return d.Expect('\n')
	}
	for d.Pending() == ' ' {
		var entry AuctionEntry
		if entry.AID, err = d.aid(); err != nil {
			return err
		}
		state, err := d.number(1, 0, 1)
		if err != nil {
			return err
		}
		entry.Active = state == 1
		m.Auctions = append(m.Auctions, entry)
	}
	return d.Expect('\n')
}

type BidRequest struct {
	UID      string
	Password string
	AID      string
	Value    int
}

func (*BidRequest) Kind() Kind { return KindBID }

func (m *BidRequest) encode(e *encoder) error {
	if err := checkCredentials(m.UID, m.Password); err != nil {
		return err
	}
	if err := checkAID(m.AID); err != nil {
		return err
	}
	if err := checkRange("bid value", m.Value, 1, MaxValue); err != nil {
		return err
	}
	e.field(m.UID)
	e.field(m.Password)
	e.field(m.AID)
	e.number(m.Value)
	return e.end()
}

func (m *BidRequest) decode(d *Decoder) (err error) {
	if m.UID, err = d.uid(); err != nil {
		return err
	}
	if m.Password, err = d.password(); err != nil {
		return err
	}
	if m.AID, err = d.aid(); err != nil {
		return err
	}
	if m.Value, err = d.number(MaxValueDigits, 1, MaxValue); err != nil {
		return err
	}
	return d.Expect('\n')
}

type ShowAssetRequest struct {
	AID string
}

func (*ShowAssetRequest) Kind() Kind { return KindSAS }

func (m *ShowAssetRequest) encode(e *encoder) error {
	if err := checkAID(m.AID); err != nil {
		return err
	}
	e.field(m.AID)
	return e.end()
}

func (m *ShowAssetRequest) decode(d *Decoder) (err error) {
	if m.AID, err = d.aid(); err != nil {
		return err
	}
	return d.Expect('\n')
}

// ShowAssetReply is the RSA header. With StatusOK a file payload follows.
type ShowAssetReply struct {
	Status Status
}

func (*ShowAssetReply) Kind() Kind { return KindRSA }

func (m *ShowAssetReply) encode(e *encoder) error {
	if err := checkStatus(KindRSA, m.Status); err != nil {
		return err
	}
	e.field(string(m.Status))
	if m.Status == StatusOK {
		return e.open()
	}
	return e.end()
}

func (m *ShowAssetReply) decode(d *Decoder) (err error) {
	if m.Status, err = d.status(KindRSA); err != nil {
		return err
	}
	if m.Status == StatusOK {
		return d.Expect(' ')
	}
	return d.Expect('\n')
}

type ShowRecordRequest struct {
	AID string
}

func (*ShowRecordRequest) Kind() Kind { return KindSRC }

func (m *ShowRecordRequest) encode(e *encoder) error {
	if err := checkAID(m.AID); err != nil {
		return err
	}
	e.field(m.AID)
	return e.end()
}

func (m *ShowRecordRequest) decode(d *Decoder) (err error) {
	if m.AID, err = d.aid(); err != nil {
		return err
	}
	return d.Expect('\n')
}

// BidEntry is one ` B` sub-record of an auction record
type BidEntry struct {
	BidderUID string
	Value     int
	PlacedAt  time.Time
	Secs      int
}

// EndEntry is the ` E` sub-record of a finished auction
type EndEntry struct {
	EndedAt time.Time
	Secs    int
}

// Record is the body of an RRC reply
type Record struct {
	HostUID      string
	Name         string
	AssetName    string
	StartValue   int
	StartedAt    time.Time
	DurationSecs int
	Bids         []BidEntry
	End          *EndEntry
}

// RecordReply is RRC. Record is set only with StatusOK.
type RecordReply struct {
	Status Status
	Record *Record
}

func (*RecordReply) Kind() Kind { return KindRRC }

func (m *RecordReply) encode(e *encoder) error {
	if err := checkStatus(KindRRC, m.Status); err != nil {
		return err
	}
	e.field(string(m.Status))
	if m.Status != StatusOK {
		if m.Record != nil {
			return invalid("record with status", m.Status)
		}
		return e.end()
	}
	r := m.Record
	if r == nil {
		return invalid("record", nil)
	}
	if !IsUID(r.HostUID) {
		return invalid("host uid", r.HostUID)
	}
	if !IsAuctionName(r.Name) {
		return invalid("auction name", r.Name)
	}
	if !IsFileName(r.AssetName) {
		return invalid("asset name", r.AssetName)
	}
	if err := checkRange("start value", r.StartValue, 1, MaxValue); err != nil {
		return err
	}
	if err := checkDateTime(r.StartedAt); err != nil {
		return err
	}
	if err := checkRange("duration", r.DurationSecs, 1, MaxDuration); err != nil {
		return err
	}
	if len(r.Bids) > MaxRecordBids {
		return invalid("bid count", len(r.Bids))
	}
	e.field(r.HostUID)
	e.field(r.Name)
	e.field(r.AssetName)
	e.number(r.StartValue)
	e.dateTime(r.StartedAt)
	e.number(r.DurationSecs)
	for _, b := range r.Bids {
		if !IsUID(b.BidderUID) {
			return invalid("bidder uid", b.BidderUID)
		}
		if err := checkRange("bid value", b.Value, 1, MaxValue); err != nil {
			return err
		}
		if err := checkDateTime(b.PlacedAt); err != nil {
			return err
		}
		if err := checkRange("bid seconds", b.Secs, 0, MaxDuration); err != nil {
			return err
		}
		e.field("B")
		e.field(b.BidderUID)
		e.number(b.Value)
		e.dateTime(b.PlacedAt)
		e.number(b.Secs)
	}
	if r.End != nil {
		if err := checkDateTime(r.End.EndedAt); err != nil {
			return err
		}
		if err := checkRange("end seconds", r.End.Secs, 0, MaxDuration); err != nil {
			return err
		}
		e.field("E")
		e.dateTime(r.End.EndedAt)
		e.number(r.End.Secs)
	}
	return e.end()
}

func (m *RecordReply) decode(d *Decoder) (err error) {
	if m.Status, err = d.status(KindRRC); err != nil {
		return err
	}
	if m.Status != StatusOK {
		return d.Expect('\n')
	}
	r := &Record{}
	if r.HostUID, err = d.uid(); err != nil {
		return err
	}
	if r.Name, err = d.auctionName(); err != nil {
		return err
	}
	if r.AssetName, err = d.fileName(); err != nil {
		return err
	}
	if r.StartValue, err = d.number(MaxValueDigits, 1, MaxValue); err != nil {
		return err
	}
	if r.StartedAt, err = d.dateTime(); err != nil {
		return err
	}
	if r.DurationSecs, err = d.number(MaxDurationDigits, 1, MaxDuration); err != nil {
		return err
	}
	for d.Pending() == ' ' {
		if r.End != nil {
			return malformed("data after end record", nil)
		}
		tag, err := d.next(1)
		if err != nil {
			return err
		}
		switch tag {
		case "B":
			if len(r.Bids) == MaxRecordBids {
				return malformed("bid count", len(r.Bids)+1)
			}
			var b BidEntry
			if b.BidderUID, err = d.uid(); err != nil {
				return err
			}
			if b.Value, err = d.number(MaxValueDigits, 1, MaxValue); err != nil {
				return err
			}
			if b.PlacedAt, err = d.dateTime(); err != nil {
				return err
			}
			if b.Secs, err = d.number(MaxDurationDigits, 0, MaxDuration); err != nil {
				return err
			}
			r.Bids = append(r.Bids, b)
		case "E":
			end := &EndEntry{}
			if end.EndedAt, err = d.dateTime(); err != nil {
				return err
			}
			if end.Secs, err = d.number(MaxDurationDigits, 0, MaxDuration); err != nil {
				return err
			}
			r.End = end
		default:
			return malformed("record tag", tag)
		}
	}
	m.Record = r
	return d.Expect('\n')
}

// ErrorReply is ERR, the generic protocol error signal
type ErrorReply struct{}

func (*ErrorReply) Kind() Kind              { return KindERR }
func (*ErrorReply) encode(e *encoder) error { return e.end() }
func (*ErrorReply) decode(d *Decoder) error { return d.Expect('\n') }
