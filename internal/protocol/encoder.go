package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"auction-server/internal/auctionerrors"
)

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) id(k Kind) {
	e.buf.WriteString(k.String())
}

func (e *encoder) field(s string) {
	e.buf.WriteByte(' ')
	e.buf.WriteString(s)
}

func (e *encoder) number(n int) {
	e.field(strconv.Itoa(n))
}

func (e *encoder) dateTime(t time.Time) {
	t = t.UTC()
	e.field(t.Format(DateLayout))
	e.field(t.Format(TimeLayout))
}

func (e *encoder) end() error {
	e.buf.WriteByte('\n')
	return nil
}

// open leaves the message unterminated so a file payload can follow
func (e *encoder) open() error {
	e.buf.WriteByte(' ')
	return nil
}

func invalid(what string, v any) error {
	return fmt.Errorf("%w: %s %v", auctionerrors.ErrValidation, what, v)
}

func checkCredentials(uid, password string) error {
	if !IsUID(uid) {
		return invalid("uid", uid)
	}
	if !IsPassword(password) {
		return invalid("password", password)
	}
	return nil
}

func checkAID(aid string) error {
	if !IsAID(aid) {
		return invalid("aid", aid)
	}
	return nil
}

func checkRange(what string, n, min, max int) error {
	if n < min || n > max {
		return invalid(what, n)
	}
	return nil
}

func checkStatus(k Kind, s Status) error {
	if !ValidStatus(k, s) {
		return invalid(k.String()+" status", s)
	}
	return nil
}

func checkDateTime(t time.Time) error {
	if y := t.UTC().Year(); y < 0 || y > 9999 {
		return invalid("date-time", t)
	}
	return nil
}
