package protocol

import "fmt"

// Encode renders m in its wire form. Out-of-bounds fields fail with a
// validation error before anything is produced. OPA and RSA OK headers end
// with a space; the file payload is written by the caller.
func Encode(m Message) ([]byte, error) {
	e := &encoder{}
	e.id(m.Kind())
	if err := m.encode(e); err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Kind(), err)
	}
	return e.buf.Bytes(), nil
}

// Decode parses a datagram holding exactly one message of any kind
func Decode(data []byte) (Message, error) {
	d := newDatagramDecoder(data)
	m, err := d.ReadMessage()
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Kind(), err)
	}
	return m, nil
}

// DecodeAs parses a datagram holding exactly one message of kind want
func DecodeAs(data []byte, want Kind) (Message, error) {
	d := newDatagramDecoder(data)
	m, err := d.ReadExpected(want)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", want, err)
	}
	return m, nil
}
