package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"auction-server/internal/auctionerrors"
)

// ErrPeerError is returned when the peer answered with ERR instead of the expected reply
var ErrPeerError = fmt.Errorf("%w: peer signalled a protocol error", auctionerrors.ErrFormat)

// Decoder reads messages token by token from a byte stream.
// A token ends at the first space or newline; that delimiter is held until
// the grammar checks it with Expect.
type Decoder struct {
	r     *bufio.Reader
	delim byte
	// class of error reported when the input ends before the message does
	short error
}

// NewDecoder returns a Decoder over a stream. Running out of bytes mid-message
// is a transport failure.
func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, short: auctionerrors.ErrIO}
}

func newDatagramDecoder(data []byte) *Decoder {
	return &Decoder{r: bufio.NewReader(bytes.NewReader(data)), short: auctionerrors.ErrFormat}
}

func (d *Decoder) readByte() (byte, error) {
	c, err := d.r.ReadByte()
	if err == nil {
		return c, nil
	}
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: message truncated", d.short)
	}
	return 0, fmt.Errorf("%w: read: %w", auctionerrors.ErrIO, err)
}

// Token reads the next field of at most max bytes and holds its delimiter.
func (d *Decoder) Token(max int) (string, error) {
	buf := make([]byte, 0, max)
	for {
		c, err := d.readByte()
		if err != nil {
			return "", err
		}
		if c == ' ' || c == '\n' {
			if len(buf) == 0 {
				return "", fmt.Errorf("%w: empty field", auctionerrors.ErrFormat)
			}
			d.delim = c
			return string(buf), nil
		}
		if len(buf) == max {
			return "", fmt.Errorf("%w: field longer than %d bytes", auctionerrors.ErrFormat, max)
		}
		buf = append(buf, c)
	}
}

// Pending returns the delimiter held after the last token, 0 if none
func (d *Decoder) Pending() byte {
	return d.delim
}

// Expect consumes the held delimiter, which must be delim
func (d *Decoder) Expect(delim byte) error {
	got := d.delim
	d.delim = 0
	if got != delim {
		return fmt.Errorf("%w: expected %q, got %q", auctionerrors.ErrFormat, delim, got)
	}
	return nil
}

// ExpectByte reads one raw byte from the stream, which must be c
func (d *Decoder) ExpectByte(c byte) error {
	got, err := d.readByte()
	if err != nil {
		return err
	}
	if got != c {
		return fmt.Errorf("%w: expected %q, got %q", auctionerrors.ErrFormat, c, got)
	}
	return nil
}

// Read reads raw payload bytes following a space terminated header
func (d *Decoder) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *Decoder) finish() error {
	if _, err := d.r.ReadByte(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after message", auctionerrors.ErrFormat)
	}
	return nil
}

func (d *Decoder) next(max int) (string, error) {
	if err := d.Expect(' '); err != nil {
		return "", err
	}
	return d.Token(max)
}

func (d *Decoder) checked(max int, what string, ok func(string) bool) (string, error) {
	tok, err := d.next(max)
	if err != nil {
		return "", err
	}
	if !ok(tok) {
		return "", fmt.Errorf("%w: invalid %s %q", auctionerrors.ErrFormat, what, tok)
	}
	return tok, nil
}

func (d *Decoder) uid() (string, error) {
	return d.checked(UIDLen, "uid", IsUID)
}

func (d *Decoder) password() (string, error) {
	return d.checked(PasswordLen, "password", IsPassword)
}

func (d *Decoder) aid() (string, error) {
	return d.checked(AIDLen, "aid", IsAID)
}

func (d *Decoder) auctionName() (string, error) {
	return d.checked(MaxNameLen, "auction name", IsAuctionName)
}

func (d *Decoder) fileName() (string, error) {
	return d.checked(MaxFileNameLen, "file name", IsFileName)
}

func (d *Decoder) number(maxDigits, min, max int) (int, error) {
	tok, err := d.next(maxDigits)
	if err != nil {
		return 0, err
	}
	n, ok := ParseNumber(tok, maxDigits, min, max)
	if !ok {
		return 0, fmt.Errorf("%w: number %q outside [%d, %d]", auctionerrors.ErrFormat, tok, min, max)
	}
	return n, nil
}

func (d *Decoder) status(k Kind) (Status, error) {
	tok, err := d.next(MaxStatusLen)
	if err != nil {
		return "", err
	}
	s := Status(tok)
	if !ValidStatus(k, s) {
		return "", fmt.Errorf("%w: status %q not valid for %s", auctionerrors.ErrFormat, tok, k)
	}
	return s, nil
}

func (d *Decoder) dateTime() (time.Time, error) {
	date, err := d.next(len(DateLayout))
	if err != nil {
		return time.Time{}, err
	}
	clock, err := d.next(len(TimeLayout))
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date-time %q", auctionerrors.ErrFormat, date+" "+clock)
	}
	return t, nil
}

// ReadFileHeader reads the `<name> <size> ` header that precedes a file payload.
// The stream is left positioned at the first payload byte.
func (d *Decoder) ReadFileHeader() (name string, size int64, err error) {
	if name, err = d.Token(MaxFileNameLen); err != nil {
		return "", 0, err
	}
	if !IsFileName(name) {
		return "", 0, fmt.Errorf("%w: invalid file name %q", auctionerrors.ErrFormat, name)
	}
	n, err := d.number(MaxFileSizeDigits, MinFileSize, MaxFileSize)
	if err != nil {
		return "", 0, err
	}
	if err := d.Expect(' '); err != nil {
		return "", 0, err
	}
	return name, int64(n), nil
}

// ReadMessage reads one message of any kind
func (d *Decoder) ReadMessage() (Message, error) {
	id, err := d.Token(kindIDLen)
	if err != nil {
		return nil, err
	}
	kind, ok := ParseKind(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown message id %q", auctionerrors.ErrFormat, id)
	}
	m := newMessage(kind)
	if err := m.decode(d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return m, nil
}

// ReadExpected reads one message that must be of kind want
func (d *Decoder) ReadExpected(want Kind) (Message, error) {
	m, err := d.ReadMessage()
	if err != nil {
		return nil, err
	}
	if m.Kind() == KindERR && want != KindERR {
		return nil, ErrPeerError
	}
	if m.Kind() != want {
		return nil, fmt.Errorf("%w: expected %s, got %s", auctionerrors.ErrFormat, want, m.Kind())
	}
	return m, nil
}

func malformed(what string, v any) error {
	return fmt.Errorf("%w: %s %v", auctionerrors.ErrFormat, what, v)
}
