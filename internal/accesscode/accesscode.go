// Package accesscode produces short human-enterable team join codes.
//
// Generation is pure string work: uniqueness against active codes is the
// caller's job (the store's unique index plus insert-retry-on-conflict).
package accesscode

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Alphabet excludes visually confusable characters (0/O, 1/I/L).
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length is the fixed code length.
const Length = 6

var (
	mu         sync.Mutex
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Generate returns a random code of Length characters drawn from Alphabet.
func Generate() string {
	mu.Lock()
	defer mu.Unlock()

	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		sb.WriteByte(Alphabet[seededRand.Intn(len(Alphabet))])
	}
	return sb.String()
}
