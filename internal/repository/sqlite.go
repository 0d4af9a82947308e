package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"auction-server/internal/auctionerrors"
	model "auction-server/internal/models"
	"auction-server/internal/protocol"
)

// SQLiteConfig holds configuration for the SQLite auction store
type SQLiteConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `envconfig:"DATABASE_PATH" default:"var/auctions.db"`
}

// SQLiteRepo implements AuctionStore on SQLite. Every read-modify-write runs in
// one immediate transaction while holding the per-key lock of its user or auction.
type SQLiteRepo struct {
	db           *sql.DB
	userLocks    *keyLock
	auctionLocks *keyLock
}

var _ AuctionStore = (*SQLiteRepo)(nil)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteRepo opens the database at cfg.DatabasePath and creates the schema if needed
func NewSQLiteRepo(ctx context.Context, cfg SQLiteConfig) (*SQLiteRepo, error) {
	dsn := "file:" + cfg.DatabasePath +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteRepo{
		db:           db,
		userLocks:    newKeyLock(),
		auctionLocks: newKeyLock(),
	}, nil
}

func initializeDB(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid        TEXT    PRIMARY KEY,
			password   TEXT    NOT NULL,
			registered INTEGER NOT NULL,
			logged_in  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS auctions (
			aid           TEXT    PRIMARY KEY,
			host_uid      TEXT    NOT NULL,
			name          TEXT    NOT NULL,
			asset_name    TEXT    NOT NULL,
			start_value   INTEGER NOT NULL,
			duration_secs INTEGER NOT NULL,
			started_at    INTEGER NOT NULL,
			state         INTEGER NOT NULL,
			ended_at      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS auctions_host ON auctions (host_uid)`,
		`CREATE TABLE IF NOT EXISTS bids (
			aid        TEXT    NOT NULL REFERENCES auctions (aid),
			seq        INTEGER NOT NULL,
			bidder_uid TEXT    NOT NULL,
			value      INTEGER NOT NULL,
			placed_at  INTEGER NOT NULL,
			PRIMARY KEY (aid, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS bids_bidder ON bids (bidder_uid)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name  TEXT    PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO counters (name, value) VALUES ('aid', 0)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// inTx runs fn in a transaction and commits if it succeeds
func (r *SQLiteRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func getUser(ctx context.Context, q querier, uid string) (model.User, bool, error) {
	u := model.User{UserID: uid}
	err := q.QueryRowContext(ctx,
		"SELECT password, registered, logged_in FROM users WHERE uid = ?", uid,
	).Scan(&u.Password, &u.Registered, &u.LoggedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("query user: %w", err)
	}
	return u, true, nil
}

func (r *SQLiteRepo) updateUser(ctx context.Context, uid string, fn func(u *model.User, found bool) error) error {
	unlock := r.userLocks.Lock(uid)
	defer unlock()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		u, found, err := getUser(ctx, tx, uid)
		if err != nil {
			return err
		}
		if err := fn(&u, found); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (uid, password, registered, logged_in) VALUES (?, ?, ?, ?)
			ON CONFLICT (uid) DO UPDATE SET
				password = excluded.password,
				registered = excluded.registered,
				logged_in = excluded.logged_in`,
			uid, u.Password, u.Registered, u.LoggedIn,
		)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepo) LoginOrRegister(ctx context.Context, uid, password string) (model.LoginResult, error) {
	var result model.LoginResult
	err := r.updateUser(ctx, uid, func(u *model.User, found bool) error {
		result = login(u, found, uid, password)
		return nil
	})
	if err != nil {
		return model.LoginRejected, fmt.Errorf("login user %s: %w", uid, err)
	}
	return result, nil
}

func (r *SQLiteRepo) Logout(ctx context.Context, uid, password string) error {
	err := r.updateUser(ctx, uid, func(u *model.User, found bool) error {
		return logout(u, found, password)
	})
	if err != nil {
		return fmt.Errorf("logout user %s: %w", uid, err)
	}
	return nil
}

func (r *SQLiteRepo) Unregister(ctx context.Context, uid, password string) error {
	err := r.updateUser(ctx, uid, func(u *model.User, found bool) error {
		return unregister(u, found, password)
	})
	if err != nil {
		return fmt.Errorf("unregister user %s: %w", uid, err)
	}
	return nil
}

func (r *SQLiteRepo) CheckCredentials(ctx context.Context, uid, password string) error {
	u, found, err := getUser(ctx, r.db, uid)
	if err == nil {
		err = verify(u, found, password)
	}
	if err != nil {
		return fmt.Errorf("check credentials of %s: %w", uid, err)
	}
	return nil
}

func (r *SQLiteRepo) CheckSession(ctx context.Context, uid string) error {
	u, found, err := getUser(ctx, r.db, uid)
	if err == nil {
		err = checkSession(u, found)
	}
	if err != nil {
		return fmt.Errorf("check session of %s: %w", uid, err)
	}
	return nil
}

// NextAID increments the persistent counter; exhausted identifiers leave the counter unchanged
func (r *SQLiteRepo) NextAID(ctx context.Context) (string, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"UPDATE counters SET value = value + 1 WHERE name = 'aid' AND value < ? RETURNING value",
		protocol.MaxAID,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("allocate aid: %w", auctionerrors.ErrAuctionLimit)
	}
	if err != nil {
		return "", fmt.Errorf("allocate aid: %w", err)
	}
	return protocol.FormatAID(n), nil
}

func (r *SQLiteRepo) CreateAuction(ctx context.Context, auction model.Auction) error {
	unlock := r.auctionLocks.Lock(auction.AuctionID)
	defer unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO auctions (aid, host_uid, name, asset_name, start_value, duration_secs, started_at, state, ended_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			auction.AuctionID, auction.HostID, auction.Name, auction.AssetName, auction.StartValue,
			auction.DurationSecs, auction.StartedAt.Unix(), int(auction.State), endedAt(auction),
		)
		if err != nil {
			var liteErr *sqlite.Error
			if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
				err = errors.Join(auctionerrors.ErrAuctionExists, err)
			}
			return fmt.Errorf("insert auction: %w", err)
		}
		return insertBids(ctx, tx, auction.AuctionID, 0, auction.Bids)
	})
	if err != nil {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, err)
	}
	return nil
}

func (r *SQLiteRepo) UpdateAuction(ctx context.Context, aid string, fn func(*model.Auction) error) (model.Auction, error) {
	unlock := r.auctionLocks.Lock(aid)
	defer unlock()

	var updated model.Auction
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		a, err := getAuction(ctx, tx, aid)
		if err != nil {
			return err
		}
		before := len(a.Bids)
		if err := fn(&a); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE auctions SET state = ?, ended_at = ? WHERE aid = ?",
			int(a.State), endedAt(a), aid,
		)
		if err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		if err := insertBids(ctx, tx, aid, before, a.Bids[before:]); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", aid, err)
	}
	return updated, nil
}

func insertBids(ctx context.Context, tx *sql.Tx, aid string, firstSeq int, bids []model.Bid) error {
	for i, b := range bids {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bids (aid, seq, bidder_uid, value, placed_at) VALUES (?, ?, ?, ?, ?)",
			aid, firstSeq+i, b.BidderID, b.Value, b.PlacedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert bid: %w", err)
		}
	}
	return nil
}

func endedAt(a model.Auction) sql.NullInt64 {
	if a.EndedAt.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: a.EndedAt.Unix(), Valid: true}
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

const selectAuctions = `SELECT aid, host_uid, name, asset_name, start_value, duration_secs, started_at, state, ended_at FROM auctions`

type scanner interface {
	Scan(dest ...any) error
}

func scanAuction(s scanner) (model.Auction, error) {
	var (
		a         model.Auction
		startedAt int64
		state     int
		ended     sql.NullInt64
	)
	err := s.Scan(&a.AuctionID, &a.HostID, &a.Name, &a.AssetName, &a.StartValue,
		&a.DurationSecs, &startedAt, &state, &ended)
	if err != nil {
		return model.Auction{}, err
	}
	a.StartedAt = unixTime(startedAt)
	a.State = model.AuctionState(state)
	if ended.Valid {
		a.EndedAt = unixTime(ended.Int64)
	}
	return a, nil
}

func getAuction(ctx context.Context, q querier, aid string) (model.Auction, error) {
	a, err := scanAuction(q.QueryRowContext(ctx, selectAuctions+" WHERE aid = ?", aid))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", aid, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("query auction %s: %w", aid, err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT bidder_uid, value, placed_at FROM bids WHERE aid = ? ORDER BY seq", aid)
	if err != nil {
		return model.Auction{}, fmt.Errorf("query bids of %s: %w", aid, err)
	}
	defer rows.Close()

	for rows.Next() {
		b := model.Bid{AuctionID: aid}
		var placedAt int64
		if err := rows.Scan(&b.BidderID, &b.Value, &placedAt); err != nil {
			return model.Auction{}, fmt.Errorf("scan bid of %s: %w", aid, err)
		}
		b.PlacedAt = unixTime(placedAt)
		a.Bids = append(a.Bids, b)
	}
	if err := rows.Err(); err != nil {
		return model.Auction{}, fmt.Errorf("iterate bids of %s: %w", aid, err)
	}
	return a, nil
}

func (r *SQLiteRepo) GetAuction(ctx context.Context, aid string) (model.Auction, error) {
	return getAuction(ctx, r.db, aid)
}

func (r *SQLiteRepo) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	return r.list(ctx, "list auctions", selectAuctions+" ORDER BY aid")
}

func (r *SQLiteRepo) ListAuctionsByHost(ctx context.Context, uid string) ([]model.Auction, error) {
	return r.list(ctx, "list auctions hosted by "+uid, selectAuctions+" WHERE host_uid = ? ORDER BY aid", uid)
}

func (r *SQLiteRepo) ListAuctionsBidByUser(ctx context.Context, uid string) ([]model.Auction, error) {
	return r.list(ctx, "list auctions bid by "+uid,
		selectAuctions+" WHERE aid IN (SELECT aid FROM bids WHERE bidder_uid = ?) ORDER BY aid", uid)
}

func (r *SQLiteRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Auction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", op, auctionerrors.ErrNoAuctions)
	}
	return out, nil
}

// Close closes the database connection
func (r *SQLiteRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
