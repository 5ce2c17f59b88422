package util

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// NewObjectID returns a random 24-character lowercase hex identifier, the
// format used for user and profile IDs.
func NewObjectID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// IsObjectID reports whether s is a 24-character hex identifier.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(strings.ToLower(s))
}
