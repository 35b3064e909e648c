package bootstrap

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/dchest/siphash"
)

// KeyLen is the byte length of a SipHash-2-4 key, per dchest/siphash.New.
const KeyLen = 16

// Key is the process-lifetime checksum key the supervisor generates once
// at startup and passes to each worker subprocess on its command line, so
// the digest protocol's integrity line can be verified without ever
// putting the key itself on the wire.
type Key [KeyLen]byte

// NewKey generates a random Key using crypto/rand.
func NewKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("bootstrap: generate checksum key: %w", err)
	}
	return k, nil
}

// String renders k as lowercase hex, suitable for a command-line argument.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// ParseKey decodes a hex string produced by Key.String.
func ParseKey(s string) (Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("bootstrap: parse checksum key: %w", err)
	}
	if len(b) != KeyLen {
		return Key{}, fmt.Errorf("bootstrap: checksum key must be %d bytes, got %d", KeyLen, len(b))
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// checksum computes the SipHash-2-4 digest of data keyed by k, in the
// pattern of opencoff-go-bbhash's record.checksum (New(key).Write(...).Sum64()).
func checksum(k Key, data []byte) uint64 {
	h := siphash.New(k[:])
	h.Write(data)
	return h.Sum64()
}
