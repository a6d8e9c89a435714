package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// idLen is the length of a record id: 12 random bytes hex-encoded.
const idLen = 24

// EmptyID is a syntactically valid id that is guaranteed never to match a
// stored record.  Malformed ids supplied by clients are replaced with it
// so that lookups behave as "not found" instead of failing.
const EmptyID = "000000000000000000000000"

// NewID returns a fresh 24-character hex record id.
func NewID() (string, error) {
	buf := make([]byte, idLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ValidID reports whether s has the shape of a record id: exactly 24
// hex characters, either case.
func ValidID(s string) bool {
	if len(s) != idLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// SafeID returns s when it is a well-formed id and EmptyID otherwise.
func SafeID(s string) string {
	if ValidID(s) {
		return s
	}
	return EmptyID
}
