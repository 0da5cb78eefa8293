package entity

import (
	"fmt"
	"strings"
	"time"
)

// CubeCell is the amount spent by one explorer on accepted applications within one period
type CubeCell struct {
	Period     string  `json:"period"`
	Explorer   string  `json:"explorer"`
	TotalSpent float64 `json:"totalSpent"`
}

// CubePeriod is a named lookback window, Y01..Y03 or M01..M36
type CubePeriod struct {
	Keyword string
	Since   time.Time
}

const (
	cubeYears  = 3
	cubeMonths = 36
)

// CubePeriods returns the lookback windows relative to now, years first
func CubePeriods(now time.Time) []CubePeriod {
	periods := make([]CubePeriod, 0, cubeYears+cubeMonths)
	for y := 1; y <= cubeYears; y++ {
		periods = append(periods, CubePeriod{Keyword: fmt.Sprintf("Y%02d", y), Since: now.AddDate(-y, 0, 0)})
	}
	for m := 1; m <= cubeMonths; m++ {
		periods = append(periods, CubePeriod{Keyword: fmt.Sprintf("M%02d", m), Since: now.AddDate(0, -m, 0)})
	}
	return periods
}

// CubeOperator compares a cell's totalSpent against a value
type CubeOperator string

const (
	CubeOpEq  CubeOperator = "eq"
	CubeOpNe  CubeOperator = "ne"
	CubeOpGt  CubeOperator = "gt"
	CubeOpGte CubeOperator = "gte"
	CubeOpLt  CubeOperator = "lt"
	CubeOpLte CubeOperator = "lte"
)

// ParseCubeOperator validates an operator name
func ParseCubeOperator(s string) (CubeOperator, error) {
	switch op := CubeOperator(strings.ToLower(strings.TrimSpace(s))); op {
	case CubeOpEq, CubeOpNe, CubeOpGt, CubeOpGte, CubeOpLt, CubeOpLte:
		return op, nil
	}
	return "", fmt.Errorf("%w: the operator must be one of: eq, ne, gt, gte, lt, lte", ErrInvalidRequest)
}

// CubeQuery filters cube cells. Empty fields are not applied.
type CubeQuery struct {
	Period   string
	Explorer string
	Operator CubeOperator
	Value    *float64
}
