package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTicker(t *testing.T) {
	day := time.Date(2022, 5, 27, 13, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		ticker := GenerateTicker(day)
		assert.True(t, IsValidTicker(ticker), ticker)
		assert.Equal(t, "220527-", ticker[:7])
	}
}

func TestIsValidTicker(t *testing.T) {
	assert.True(t, IsValidTicker("220527-ABCD"))
	assert.False(t, IsValidTicker("220527-abcd"))
	assert.False(t, IsValidTicker("2205-ABCD"))
	assert.False(t, IsValidTicker("220527-ABCDE"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3.0))
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, 100.0, Round2(100))
	assert.Equal(t, 0.0, Round2(0))
}

func TestDateLayout(t *testing.T) {
	d := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "09/03/2024", d.Format(DATE_LAYOUT))
}
