package crypto

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressPrefix defines the human-readable prefix of an encoded identity.
type AddressPrefix string

// DFDPrefix is the prefix used for all search-service identities.
const DFDPrefix AddressPrefix = "dfd"

// IdentityLength is the raw byte length of an identity.
const IdentityLength = 20

// Identity is the opaque 20-byte identifier of a caller. The zero value is
// the anonymous sentinel and is never a valid principal for mutating or
// balance-revealing operations.
type Identity [IdentityLength]byte

// Anonymous is the distinguished identity of an unauthenticated caller.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity is the anonymous sentinel.
func (id Identity) IsAnonymous() bool {
	return id == Anonymous
}

// Bytes returns the raw identity bytes.
func (id Identity) Bytes() []byte {
	out := make([]byte, IdentityLength)
	copy(out, id[:])
	return out
}

// String encodes the identity as a bech32 string with the service prefix.
func (id Identity) String() string {
	conv, err := bech32.ConvertBits(id[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(DFDPrefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// IdentityFromBytes builds an identity from a raw 20-byte slice.
func IdentityFromBytes(b []byte) (Identity, error) {
	if len(b) != IdentityLength {
		return Identity{}, fmt.Errorf("identity must be %d bytes long, got %d", IdentityLength, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// DecodeIdentity parses a bech32-encoded identity string.
func DecodeIdentity(addrStr string) (Identity, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	if prefix != string(DFDPrefix) {
		return Identity{}, fmt.Errorf("unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Identity{}, fmt.Errorf("error converting bits: %w", err)
	}
	return IdentityFromBytes(conv)
}
