// Package assets keeps the file attached to each auction on the local filesystem
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"auction-server/internal/auctionerrors"
)

const (
	auctionsDir = "auctions"
	stagingDir  = "staging"
	assetFile   = "asset.bin"
)

// Config holds configuration for the asset store
type Config struct {
	// Basedir is the root directory for asset storage
	Basedir string `envconfig:"ASSET_DIR" default:"var/assets"`
}

// FileStore stores one asset per auction under Basedir/auctions/<aid>.
// Uploads are written to Basedir/staging and renamed into place on commit.
type FileStore struct {
	basedir string
}

// NewFileStore creates the storage directories if needed
func NewFileStore(cfg Config) (*FileStore, error) {
	for _, dir := range []string{auctionsDir, stagingDir} {
		if err := os.MkdirAll(filepath.Join(cfg.Basedir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir all: %w", err)
		}
	}
	return &FileStore{basedir: cfg.Basedir}, nil
}

func (s *FileStore) path(aid string) string {
	return filepath.Join(s.basedir, auctionsDir, aid, assetFile)
}

// Upload is an asset being received before the auction it belongs to exists
type Upload struct {
	file    *os.File
	store   *FileStore
	written int64
	done    bool
}

// Stage opens a new upload in the staging area
func (s *FileStore) Stage() (*Upload, error) {
	file, err := os.CreateTemp(filepath.Join(s.basedir, stagingDir), "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	return &Upload{file: file, store: s}, nil
}

func (u *Upload) Write(p []byte) (int, error) {
	n, err := u.file.Write(p)
	u.written += int64(n)
	return n, err
}

// Written returns the number of bytes received so far
func (u *Upload) Written() int64 {
	return u.written
}

// Commit makes the upload the asset of aid
func (u *Upload) Commit(aid string) error {
	if u.done {
		return errors.New("upload already finished")
	}
	u.done = true

	if err := u.file.Sync(); err != nil {
		u.remove()
		return fmt.Errorf("sync: %w", err)
	}
	if err := u.file.Close(); err != nil {
		os.Remove(u.file.Name())
		return fmt.Errorf("close: %w", err)
	}

	target := u.store.path(aid)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		os.Remove(u.file.Name())
		return fmt.Errorf("mkdir all: %w", err)
	}
	if err := os.Rename(u.file.Name(), target); err != nil {
		os.Remove(u.file.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Discard drops the upload. It is a no-op after Commit.
func (u *Upload) Discard() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.remove()
}

func (u *Upload) remove() error {
	u.file.Close()
	if err := os.Remove(u.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Open returns the asset of aid and its size. The caller closes the file.
func (s *FileStore) Open(aid string) (*os.File, int64, error) {
	file, err := os.Open(s.path(aid))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("open asset of %s: %w", aid, auctionerrors.ErrAssetNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open asset of %s: %w", aid, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat asset of %s: %w", aid, err)
	}
	return file, info.Size(), nil
}

// Remove deletes the asset of aid. Removing a missing asset is not an error.
func (s *FileStore) Remove(aid string) error {
	if err := os.RemoveAll(filepath.Dir(s.path(aid))); err != nil {
		return fmt.Errorf("remove asset of %s: %w", aid, err)
	}
	return nil
}
