package entity

import "time"

// PriceStatistics summarises the price of all trips
type PriceStatistics struct {
	AvgPrice float64 `json:"avgPrice"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	StdPrice float64 `json:"stdPrice"`
}

// CountStatistics summarises a per-group count (trips per manager, applications per trip)
type CountStatistics struct {
	AvgCount float64 `json:"avgCount"`
	MinCount float64 `json:"minCount"`
	MaxCount float64 `json:"maxCount"`
	StdCount float64 `json:"stdCount"`
}

// KeywordCount is one entry of the finder keyword popularity ranking
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// FinderStatistics summarises saved searches
type FinderStatistics struct {
	AvgMinPrice float64        `json:"avgMinPrice"`
	AvgMaxPrice float64        `json:"avgMaxPrice"`
	TopKeywords []KeywordCount `json:"topKeywords"`
}

// StateRatio is the percentage of applications in one state
type StateRatio struct {
	Status string  `json:"status"`
	Ratio  float64 `json:"ratio"`
}

// Indicator is one immutable data warehouse snapshot
type Indicator struct {
	ID                      string           `json:"id"`
	TripsPricesStatistics   PriceStatistics  `json:"tripsPricesStatistics"`
	TripsManagersStatistics CountStatistics  `json:"tripsManagersStatistics"`
	FinderStatistics        FinderStatistics `json:"finderStatistics"`
	ApplicationStatistics   CountStatistics  `json:"applicationStatistics"`
	RatioOfApplications     []StateRatio     `json:"ratioOfApplications"`
	ComputationMoment       time.Time        `json:"computationMoment"`
	RebuildPeriod           string           `json:"rebuildPeriod"`
}
