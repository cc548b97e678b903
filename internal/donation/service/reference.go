package service

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

const referencePrefix = "DON_"

var referencePattern = regexp.MustCompile(`^DON_[0-9a-f]{16}$`)

// NewReference mints a transaction reference in this system's own
// namespace, distinguishable from anything the gateway issues.
func NewReference() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return referencePrefix + hex.EncodeToString(buf)
}

// IsReference reports whether value matches the minted format.
func IsReference(value string) bool {
	return referencePattern.MatchString(value)
}
