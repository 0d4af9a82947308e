package models

import "time"

// AuctionState is the lifecycle state of an auction
type AuctionState int

const (
	StateOpen AuctionState = iota
	StateClosed
	StateExpired
)

func (s AuctionState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further bid or close is accepted in this state
func (s AuctionState) Terminal() bool {
	return s == StateClosed || s == StateExpired
}

// LoginResult is the outcome of a login attempt, which registers unknown users
type LoginResult int

const (
	LoginRejected LoginResult = iota
	LoginAuthenticated
	LoginCreated
)

// User represents a participant in the auction
type User struct {
	UserID     string `json:"user_id"`
	Password   string `json:"-"`
	Registered bool   `json:"registered"`
	LoggedIn   bool   `json:"logged_in"`
}

// Auction represents an auctioned asset and its bid history
type Auction struct {
	AuctionID    string       `json:"auction_id"`
	HostID       string       `json:"host_id"`
	Name         string       `json:"name"`
	AssetName    string       `json:"asset_name"`
	StartValue   int          `json:"start_value"`
	DurationSecs int          `json:"duration_secs"`
	StartedAt    time.Time    `json:"started_at"`
	State        AuctionState `json:"state"`
	EndedAt      time.Time    `json:"ended_at,omitempty"`
	Bids         []Bid        `json:"bids"`
}

// Bid represents a user's bid on an auction
type Bid struct {
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Value     int       `json:"value"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Deadline is the instant the auction expires unless closed earlier
func (a Auction) Deadline() time.Time {
	return a.StartedAt.Add(time.Duration(a.DurationSecs) * time.Second)
}

// HighestValue returns the value a new bid has to exceed
func (a Auction) HighestValue() int {
	if len(a.Bids) == 0 {
		return a.StartValue
	}
	return a.Bids[len(a.Bids)-1].Value
}

// EffectiveState is the state as observed at now, with lazy expiration applied
func (a Auction) EffectiveState(now time.Time) AuctionState {
	if IsExpired(a, now) {
		return StateExpired
	}
	return a.State
}

// Active reports whether the auction still accepts bids at now
func (a Auction) Active(now time.Time) bool {
	return a.EffectiveState(now) == StateOpen
}

// EndSeconds is the number of seconds between start and end of a finished auction
func (a Auction) EndSeconds() int {
	return int(a.EndedAt.Sub(a.StartedAt) / time.Second)
}

// HostedBy reports whether uid owns the auction
func (a Auction) HostedBy(uid string) bool {
	return a.HostID == uid
}

// BidBy reports whether uid placed at least one bid
func (a Auction) BidBy(uid string) bool {
	for _, b := range a.Bids {
		if b.BidderID == uid {
			return true
		}
	}
	return false
}

// IsExpired reports whether an open auction's duration has elapsed at now.
// Closed or already expired auctions are not reported again.
func IsExpired(a Auction, now time.Time) bool {
	return a.State == StateOpen && !now.Before(a.Deadline())
}

// Clone returns a deep copy that shares no bid slice with a
func (a Auction) Clone() Auction {
	c := a
	c.Bids = append([]Bid(nil), a.Bids...)
	return c
}
