package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID builds "session_<unix ms>_<9 base36 chars>". Uniqueness is
// best-effort only: two browsers generating an id in the same millisecond
// collide with probability 36^-9.
func NewSessionID(now time.Time) string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(sessionIDAlphabet[rand.Intn(len(sessionIDAlphabet))])
	}
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), b.String())
}
