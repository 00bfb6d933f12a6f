package domain

import (
	"errors"
	"testing"
)

func testPayload(fill byte) []byte {
	payload := make([]byte, payloadLen)
	payload[0] = addressVersion
	payload[1] = 1 // ed25519 key type
	for i := 2; i < payloadLen; i++ {
		payload[i] = fill
	}
	return payload
}

func TestAddressRoundTrip(t *testing.T) {
	addr, err := AddressFromBytes(testPayload(0xAB))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseAddress(addr.String())
	if err != nil {
		t.Fatalf("parsing %q: %v", addr.String(), err)
	}
	if parsed != addr {
		t.Errorf("round trip mismatch: %v != %v", parsed, addr)
	}

	// parse(to_display(parse(s))) == parse(s)
	again, err := ParseAddress(parsed.String())
	if err != nil {
		t.Fatalf("re-parsing: %v", err)
	}
	if again != parsed {
		t.Errorf("re-parse mismatch: %v != %v", again, parsed)
	}
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	addr, _ := AddressFromBytes(testPayload(0x01))
	valid := addr.String()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base58", "0OIl+/"},
		{"truncated", valid[:len(valid)-6]},
		{"corrupted checksum", valid[:len(valid)-1] + flipLastChar(valid)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAddress(tc.input)
			if !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("ParseAddress(%q) error = %v, want ErrInvalidAddress", tc.input, err)
			}
		})
	}
}

// flipLastChar returns a base58 character different from the last one of s.
func flipLastChar(s string) string {
	if s[len(s)-1] == '2' {
		return "3"
	}
	return "2"
}

func TestMatchesBytes(t *testing.T) {
	payload := testPayload(0x42)
	addr, _ := AddressFromBytes(payload)

	if !addr.MatchesBytes(payload) {
		t.Error("MatchesBytes(own payload) = false")
	}
	if addr.MatchesBytes(testPayload(0x43)) {
		t.Error("MatchesBytes(other payload) = true")
	}
}

func TestMatchesDisplay(t *testing.T) {
	a, _ := AddressFromBytes(testPayload(0x10))
	b, _ := AddressFromBytes(testPayload(0x11))

	if !a.MatchesDisplay(a.String()) {
		t.Error("MatchesDisplay(own display) = false")
	}
	if a.MatchesDisplay(b.String()) {
		t.Error("MatchesDisplay(other display) = true")
	}
	if a.MatchesDisplay("garbage") {
		t.Error("MatchesDisplay(malformed) = true")
	}
}

func TestVersionByteRejected(t *testing.T) {
	payload := testPayload(0x01)
	payload[0] = 0x05
	if _, err := AddressFromBytes(payload); err == nil {
		t.Error("AddressFromBytes with bad version succeeded")
	}
}
