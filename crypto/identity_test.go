package crypto

import (
	"strings"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	var id Identity
	for i := range id {
		id[i] = byte(i + 1)
	}
	encoded := id.String()
	if !strings.HasPrefix(encoded, string(DFDPrefix)+"1") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	decoded, err := DecodeIdentity(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != id {
		t.Fatalf("round trip mismatch: %v != %v", decoded, id)
	}
}

func TestDecodeIdentityRejectsForeignPrefix(t *testing.T) {
	if _, err := DecodeIdentity("nhb1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5y3k0j"); err == nil {
		t.Fatal("expected prefix rejection")
	}
}

func TestAnonymousSentinel(t *testing.T) {
	var zero Identity
	if !zero.IsAnonymous() {
		t.Fatal("zero identity must be anonymous")
	}
	zero[0] = 1
	if zero.IsAnonymous() {
		t.Fatal("non-zero identity must not be anonymous")
	}
}

func TestIdentityFromBytesLength(t *testing.T) {
	if _, err := IdentityFromBytes(make([]byte, 19)); err == nil {
		t.Fatal("expected length error")
	}
	id, err := IdentityFromBytes(make([]byte, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.IsAnonymous() {
		t.Fatal("zero bytes should decode to the anonymous sentinel")
	}
}
