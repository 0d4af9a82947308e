package protocol

import (
	"fmt"
	"strconv"
)

// Field bounds
const (
	UIDLen            = 6
	PasswordLen       = 8
	AIDLen            = 3
	MaxAID            = 999
	MaxNameLen        = 10
	MaxFileNameLen    = 24
	MaxFileSizeDigits = 8
	MinFileSize       = 1
	MaxFileSize       = 10_000_000
	MaxValueDigits    = 6
	MaxValue          = 999_999
	MaxDurationDigits = 5
	MaxDuration       = 99_999
	MaxStatusLen      = 3
	MaxRecordBids     = 50

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

const (
	dateTimeLen = len(DateLayout) + 1 + len(TimeLayout)

	maxCredentialsRequest = kindIDLen + 1 + UIDLen + 1 + PasswordLen + 1
	maxStatusReply        = kindIDLen + 1 + MaxStatusLen + 1
	maxListReply          = kindIDLen + 1 + MaxStatusLen + MaxAID*(1+AIDLen+2) + 1
	maxRecordHeader       = kindIDLen + 1 + MaxStatusLen + 1 + UIDLen + 1 + MaxNameLen + 1 + MaxFileNameLen +
		1 + MaxValueDigits + 1 + dateTimeLen + 1 + MaxDurationDigits
	maxRecordBid   = 3 + UIDLen + 1 + MaxValueDigits + 1 + dateTimeLen + 1 + MaxDurationDigits
	maxRecordEnd   = 3 + dateTimeLen + 1 + MaxDurationDigits
	maxRecordReply = maxRecordHeader + MaxRecordBids*maxRecordBid + maxRecordEnd + 1

	// MaxRequestDatagram bounds every request accepted on the datagram transport
	MaxRequestDatagram = maxCredentialsRequest
)

// MaxDatagram returns the largest valid encoding of a datagram message kind
func MaxDatagram(k Kind) int {
	switch k {
	case KindLIN, KindLOU, KindUNR:
		return maxCredentialsRequest
	case KindLMA, KindLMB:
		return kindIDLen + 1 + UIDLen + 1
	case KindLST, KindERR:
		return kindIDLen + 1
	case KindSRC:
		return kindIDLen + 1 + AIDLen + 1
	case KindRLI, KindRLO, KindRUR:
		return maxStatusReply
	case KindRMA, KindRMB, KindRLS:
		return maxListReply
	case KindRRC:
		return maxRecordReply
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func matches(s string, minLen, maxLen int, ok func(byte) bool) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !ok(s[i]) {
			return false
		}
	}
	return true
}

// IsUID reports whether s is a 6 digit user id
func IsUID(s string) bool {
	return len(s) == UIDLen && isDigits(s)
}

// IsPassword reports whether s is an 8 character alphanumeric password
func IsPassword(s string) bool {
	return matches(s, PasswordLen, PasswordLen, isAlnum)
}

// IsAID reports whether s is a 3 digit auction id
func IsAID(s string) bool {
	return len(s) == AIDLen && isDigits(s)
}

// IsAuctionName reports whether s is a valid auction name
func IsAuctionName(s string) bool {
	return matches(s, 1, MaxNameLen, func(c byte) bool {
		return isAlnum(c) || c == '-' || c == '_'
	})
}

// IsFileName reports whether s is a valid asset file name
func IsFileName(s string) bool {
	return matches(s, 1, MaxFileNameLen, func(c byte) bool {
		return isAlnum(c) || c == '-' || c == '_' || c == '.'
	})
}

// FormatAID renders a sequence number as a fixed width auction id
func FormatAID(n int) string {
	return fmt.Sprintf("%0*d", AIDLen, n)
}

// ParseNumber parses a base-10 token of at most maxDigits digits within [min, max]
func ParseNumber(tok string, maxDigits, min, max int) (int, bool) {
	if len(tok) > maxDigits || !isDigits(tok) {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}
