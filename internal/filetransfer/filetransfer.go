// Package filetransfer moves length-declared binary payloads over an
// established stream: `<name> <size> ` followed by exactly size bytes and `\n`.
package filetransfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/protocol"
)

// ChunkSize bounds every read and write of a payload
const ChunkSize = 4096

// FileInfo describes a payload announced on the wire
type FileInfo struct {
	Name string
	Size int64
}

// Progress counts payload bytes moved so far. A nil *Progress ignores updates.
type Progress struct {
	total    atomic.Int64
	done     atomic.Int64
	onUpdate func(done, total int64)
}

// NewProgress returns a Progress that calls onUpdate after every chunk.
// onUpdate may be nil.
func NewProgress(onUpdate func(done, total int64)) *Progress {
	return &Progress{onUpdate: onUpdate}
}

// Transferred returns the number of payload bytes moved so far
func (p *Progress) Transferred() int64 {
	if p == nil {
		return 0
	}
	return p.done.Load()
}

// Total returns the declared payload size
func (p *Progress) Total() int64 {
	if p == nil {
		return 0
	}
	return p.total.Load()
}

func (p *Progress) begin(total int64) {
	if p == nil {
		return
	}
	p.total.Store(total)
	p.done.Store(0)
}

func (p *Progress) add(n int) {
	if p == nil {
		return
	}
	done := p.done.Add(int64(n))
	if p.onUpdate != nil {
		p.onUpdate(done, p.total.Load())
	}
}

func checkInfo(info FileInfo) error {
	if !protocol.IsFileName(info.Name) {
		return fmt.Errorf("%w: file name %q", auctionerrors.ErrValidation, info.Name)
	}
	if info.Size < protocol.MinFileSize || info.Size > protocol.MaxFileSize {
		return fmt.Errorf("%w: file size %d", auctionerrors.ErrValidation, info.Size)
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("%w: write: %w", auctionerrors.ErrIO, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write of %d/%d bytes", auctionerrors.ErrIO, n, len(b))
	}
	return nil
}

// Send writes the header, exactly info.Size bytes read from src, and the terminator
func Send(w io.Writer, info FileInfo, src io.Reader, p *Progress) error {
	if err := checkInfo(info); err != nil {
		return err
	}
	header := info.Name + " " + strconv.FormatInt(info.Size, 10) + " "
	if err := writeAll(w, []byte(header)); err != nil {
		return err
	}

	p.begin(info.Size)
	buf := make([]byte, ChunkSize)
	for remaining := info.Size; remaining > 0; {
		chunk := buf[:min(remaining, int64(len(buf)))]
		if _, err := io.ReadFull(src, chunk); err != nil {
			return fmt.Errorf("%w: source ended %d bytes early: %w", auctionerrors.ErrIO, remaining, err)
		}
		if err := writeAll(w, chunk); err != nil {
			return err
		}
		remaining -= int64(len(chunk))
		p.add(len(chunk))
	}
	return writeAll(w, []byte{'\n'})
}

// SendFile streams the file at path under its base name
func SendFile(w io.Writer, path string, p *Progress) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open asset: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat asset: %w", err)
	}
	return Send(w, FileInfo{Name: filepath.Base(path), Size: stat.Size()}, file, p)
}

// Receive reads a header and its payload from d into dst, chunk by chunk.
// On error dst may hold part of the payload and must be discarded.
func Receive(d *protocol.Decoder, dst io.Writer, p *Progress) (FileInfo, error) {
	name, size, err := d.ReadFileHeader()
	if err != nil {
		return FileInfo{}, fmt.Errorf("read file header: %w", err)
	}
	info := FileInfo{Name: name, Size: size}

	p.begin(size)
	buf := make([]byte, ChunkSize)
	for remaining := size; remaining > 0; {
		n, err := d.Read(buf[:min(remaining, int64(len(buf)))])
		if n > 0 {
			if werr := writeAll(dst, buf[:n]); werr != nil {
				return info, werr
			}
			remaining -= int64(n)
			p.add(n)
		}
		if err != nil && remaining > 0 {
			if errors.Is(err, io.EOF) {
				return info, fmt.Errorf("%w: stream closed after %d of %d bytes", auctionerrors.ErrIO, size-remaining, size)
			}
			return info, fmt.Errorf("%w: read payload: %w", auctionerrors.ErrIO, err)
		}
	}

	if err := d.ExpectByte('\n'); err != nil {
		return info, fmt.Errorf("read file terminator: %w", err)
	}
	return info, nil
}
