package uuid

import (
	"github.com/lithammer/shortuuid/v4"
)

// NewShortUUID returns a new UUIDv4, encoded with base57
func NewShortUUID() string {
	return shortuuid.New()
}
