package entity

import "time"

// Runtime configuration keys
const (
	ConfigMaxResultsFinder = "maxResultsFinder"
	ConfigTimeCachedFinder = "timeCachedFinder"
)

// ConfigurationEntry is one operator-tunable key/value pair
type ConfigurationEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FinderSettings are the effective finder search limits, resolved on every cache miss
type FinderSettings struct {
	MaxResults int           `json:"maxResultsFinder"`
	CacheTTL   time.Duration `json:"-"`
}

// CacheTTLSeconds exposes the TTL the way operators configure it
func (s FinderSettings) CacheTTLSeconds() int {
	return int(s.CacheTTL / time.Second)
}
