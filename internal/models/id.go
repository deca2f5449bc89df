package models

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLength = 9
)

// NewID generates a collection-unique identifier: millisecond timestamp
// followed by a nine character random base36 suffix. Collisions would need
// two generations in the same millisecond drawing the same suffix, which is
// treated as negligible.
func NewID() string {
	return NewIDAt(time.Now())
}

// NewIDAt generates an identifier for the supplied instant. Exposed so tests
// can pin the timestamp half.
func NewIDAt(now time.Time) string {
	suffix := make([]byte, idSuffixLength)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand is the platform entropy source; if it fails the
			// process has bigger problems than ID generation.
			panic(err)
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}

	return strconv.FormatInt(now.UnixMilli(), 10) + string(suffix)
}
