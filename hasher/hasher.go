// Package hasher derives fixed-width opaque tokens from a seed and a name.
package hasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// Width is the number of hex characters in every token.
const Width = 8

// Func maps (seed, name) to a lowercase hex token of Width characters. It
// must be a pure function.
type Func func(seed, name string) string

// HMACSHA256 keys HMAC-SHA256 with the seed and digests the name.
// seed "foobar" and name "App" produce "b3411db7".
func HMACSHA256(seed, name string) string {
	mac := hmac.New(sha256.New, []byte(seed))
	mac.Write([]byte(name))
	return hex.EncodeToString(mac.Sum(nil))[:Width]
}

// Highway digests the name with HighwayHash-64, using SHA-256 of the seed as
// the 32 byte key.
func Highway(seed, name string) string {
	key := sha256.Sum256([]byte(seed))
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], highwayhash.Sum64([]byte(name), key[:]))
	return hex.EncodeToString(sum[:])[:Width]
}

// Func returns the hashing function for the kind, nil for unknown kinds.
func (k Kind) Func() Func {
	switch k {
	case KindHmacSha256:
		return HMACSHA256
	case KindHighway:
		return Highway
	default:
		return nil
	}
}
