package domain

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ErrInvalidAddress indicates a malformed account address string.
var ErrInvalidAddress = errors.New("invalid account address")

const (
	addressVersion = 0x00
	checksumLen    = 4
	// version byte + key-type byte + 33-byte public key
	payloadLen = 35
)

// Address is a participant identity. It holds the canonical binary payload
// (version, key type, public key) and its base58check display form. Payer and
// payee comparisons are done on the binary form; the display form is what the
// ledger API and report files use.
type Address struct {
	payload string
	display string
}

// ParseAddress decodes a base58check account address string.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(raw) != payloadLen+checksumLen {
		return Address{}, fmt.Errorf("%w: %q: unexpected length %d", ErrInvalidAddress, s, len(raw))
	}
	payload, sum := raw[:payloadLen], raw[payloadLen:]
	if payload[0] != addressVersion {
		return Address{}, fmt.Errorf("%w: %q: unknown version %d", ErrInvalidAddress, s, payload[0])
	}
	if !bytes.Equal(sum, checksum(payload)) {
		return Address{}, fmt.Errorf("%w: %q: checksum mismatch", ErrInvalidAddress, s)
	}
	return Address{payload: string(payload), display: s}, nil
}

// AddressFromBytes builds an Address from its canonical binary payload.
func AddressFromBytes(payload []byte) (Address, error) {
	if len(payload) != payloadLen || payload[0] != addressVersion {
		return Address{}, fmt.Errorf("%w: bad payload", ErrInvalidAddress)
	}
	raw := make([]byte, 0, payloadLen+checksumLen)
	raw = append(raw, payload...)
	raw = append(raw, checksum(payload)...)
	return Address{payload: string(payload), display: base58.Encode(raw)}, nil
}

// String returns the base58check display form. ParseAddress(a.String()) == a.
func (a Address) String() string {
	return a.display
}

// Bytes returns a copy of the canonical binary payload.
func (a Address) Bytes() []byte {
	return []byte(a.payload)
}

// MatchesBytes reports whether raw equals the canonical binary payload.
func (a Address) MatchesBytes(raw []byte) bool {
	return a.payload == string(raw)
}

// MatchesDisplay reports whether s parses to the same identity. Malformed
// input never matches.
func (a Address) MatchesDisplay(s string) bool {
	other, err := ParseAddress(s)
	if err != nil {
		return false
	}
	return a.payload == other.payload
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a.payload == ""
}

// checksum is the first four bytes of a double SHA-256 over the payload.
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
