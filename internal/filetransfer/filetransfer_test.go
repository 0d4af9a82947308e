package filetransfer

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"

	"auction-server/internal/auctionerrors"
	"auction-server/internal/protocol"

	"github.com/stretchr/testify/require"
)

// randomChunkReader returns at most a random number of bytes per Read
type randomChunkReader struct {
	r   io.Reader
	rnd *rand.Rand
}

func (c *randomChunkReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1+c.rnd.Intn(len(p))]
	}
	return c.r.Read(p)
}

func payload(size int) []byte {
	data := make([]byte, size)
	rand.New(rand.NewSource(int64(size))).Read(data)
	return data
}

// Tests that payloads survive arbitrary read chunking byte for byte
func TestTransfer_Integrity(t *testing.T) {
	t.Parallel()

	readers := map[string]func(io.Reader) io.Reader{
		"whole":    func(r io.Reader) io.Reader { return r },
		"one_byte": iotest.OneByteReader,
		"half":     iotest.HalfReader,
		"random": func(r io.Reader) io.Reader {
			return &randomChunkReader{r: r, rnd: rand.New(rand.NewSource(7))}
		},
	}
	sizes := []int{1, ChunkSize - 1, ChunkSize, ChunkSize + 1, 3*ChunkSize + 17, 100_000}

	for name, wrap := range readers {
		for _, size := range sizes {
			name, wrap, size := name, wrap, size
			t.Run(fmt.Sprintf("%s_%d", name, size), func(t *testing.T) {
				t.Parallel()

				data := payload(size)
				var wire bytes.Buffer
				sent := NewProgress(nil)
				require.NoError(t, Send(&wire, FileInfo{Name: "asset.bin", Size: int64(size)}, bytes.NewReader(data), sent))
				require.Equal(t, int64(size), sent.Transferred())

				var got bytes.Buffer
				var updates []int64
				received := NewProgress(func(done, total int64) {
					require.Equal(t, int64(size), total)
					updates = append(updates, done)
				})
				d := protocol.NewDecoder(wrap(&wire))
				info, err := Receive(d, &got, received)
				require.NoError(t, err)
				require.Equal(t, FileInfo{Name: "asset.bin", Size: int64(size)}, info)
				require.Equal(t, size, got.Len())
				require.True(t, bytes.Equal(data, got.Bytes()))
				require.Equal(t, int64(size), received.Transferred())
				for i := 1; i < len(updates); i++ {
					require.Greater(t, updates[i], updates[i-1])
				}
			})
		}
	}
}

// Tests that a full OPA request (header plus payload) decodes to the same values
func TestTransfer_OpenRequest(t *testing.T) {
	t.Parallel()

	req := &protocol.OpenRequest{UID: "123456", Password: "abc12345", Name: "bike", StartValue: 100, DurationSecs: 60}
	header, err := protocol.Encode(req)
	require.NoError(t, err)

	data := payload(5000)
	var wire bytes.Buffer
	wire.Write(header)
	require.NoError(t, Send(&wire, FileInfo{Name: "bike.png", Size: int64(len(data))}, bytes.NewReader(data), nil))

	d := protocol.NewDecoder(&wire)
	msg, err := d.ReadExpected(protocol.KindOPA)
	require.NoError(t, err)
	require.Equal(t, req, msg)

	var got bytes.Buffer
	info, err := Receive(d, &got, nil)
	require.NoError(t, err)
	require.Equal(t, "bike.png", info.Name)
	require.Equal(t, data, got.Bytes())
	require.Zero(t, wire.Len())
}

func TestReceive_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wire    string
		wantErr error
		partial string
	}{
		{name: "short_payload", wire: "a.txt 10 hello", wantErr: auctionerrors.ErrIO, partial: "hello"},
		{name: "missing_terminator", wire: "a.txt 5 hello", wantErr: auctionerrors.ErrIO, partial: "hello"},
		{name: "wrong_terminator", wire: "a.txt 5 hello!", wantErr: auctionerrors.ErrFormat, partial: "hello"},
		{name: "size_not_numeric", wire: "a.txt 5x hello\n", wantErr: auctionerrors.ErrFormat},
		{name: "size_too_big", wire: "a.txt 99999999 hello\n", wantErr: auctionerrors.ErrFormat},
		{name: "size_zero", wire: "a.txt 0 \n", wantErr: auctionerrors.ErrFormat},
		{name: "bad_file_name", wire: "a/b.txt 5 hello\n", wantErr: auctionerrors.ErrFormat},
		{name: "header_newline", wire: "a.txt 5\nhello\n", wantErr: auctionerrors.ErrFormat},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got bytes.Buffer
			_, err := Receive(protocol.NewDecoder(strings.NewReader(tc.wire)), &got, nil)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.partial, got.String())
		})
	}
}

func TestSend_Errors(t *testing.T) {
	t.Parallel()

	t.Run("source_shorter_than_declared", func(t *testing.T) {
		var wire bytes.Buffer
		err := Send(&wire, FileInfo{Name: "a.txt", Size: 10}, strings.NewReader("hello"), nil)
		require.ErrorIs(t, err, auctionerrors.ErrIO)
	})

	t.Run("invalid_name", func(t *testing.T) {
		var wire bytes.Buffer
		err := Send(&wire, FileInfo{Name: "has space", Size: 1}, strings.NewReader("x"), nil)
		require.ErrorIs(t, err, auctionerrors.ErrValidation)
		require.Zero(t, wire.Len())
	})

	t.Run("empty", func(t *testing.T) {
		var wire bytes.Buffer
		err := Send(&wire, FileInfo{Name: "a.txt", Size: 0}, strings.NewReader(""), nil)
		require.ErrorIs(t, err, auctionerrors.ErrValidation)
		require.Zero(t, wire.Len())
	})

	t.Run("too_large", func(t *testing.T) {
		var wire bytes.Buffer
		err := Send(&wire, FileInfo{Name: "a.txt", Size: protocol.MaxFileSize + 1}, strings.NewReader(""), nil)
		require.ErrorIs(t, err, auctionerrors.ErrValidation)
	})
}
