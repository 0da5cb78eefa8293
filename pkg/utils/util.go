package utils

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

const tickerAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var tickerPattern = regexp.MustCompile(`^\d{6}-[A-Z]{4}$`)

// GenerateTicker returns a trip ticker such as "220527-ABCD" for the given day
func GenerateTicker(now time.Time) string {
	var b strings.Builder
	b.WriteString(now.Format(TICKER_DATE_LAYOUT))
	b.WriteByte('-')
	for i := 0; i < TICKER_SUFFIX_LENGTH; i++ {
		b.WriteByte(tickerAlphabet[rand.IntN(len(tickerAlphabet))])
	}
	return b.String()
}

// IsValidTicker reports whether s has the yymmdd-XXXX shape
func IsValidTicker(s string) bool {
	return tickerPattern.MatchString(s)
}

// Round2 rounds to two decimals, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
