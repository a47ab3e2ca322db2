package service

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// mintOrderID builds the human-readable order id: prefix, base36-encoded
// submission timestamp, and a 4-character base36 random suffix, upper-cased.
// Uniqueness is probabilistic; two ids collide only when two submissions land
// in the same second and draw the same suffix, an accepted low-probability risk
func mintOrderID(prefix string, submittedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(strconv.FormatInt(submittedAt.Unix(), 36))
	for i := 0; i < 4; i++ {
		sb.WriteByte(base36Alphabet[rand.Intn(len(base36Alphabet))])
	}
	return strings.ToUpper(sb.String())
}
