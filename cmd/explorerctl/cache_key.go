package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/usecase"
)

var (
	keyKeyword   string
	keyMinPrice  float64
	keyMaxPrice  float64
	keyStartDate string
	keyEndDate   string
)

var cacheKeyCmd = &cobra.Command{
	Use:   "cache-key",
	Short: "Print the canonical result cache key for a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), usecase.CacheKey(filter))
		return nil
	},
}

func init() {
	f := cacheKeyCmd.Flags()
	f.StringVar(&keyKeyword, "keyword", "", "keyword")
	f.Float64Var(&keyMinPrice, "min-price", 0, "minimum price")
	f.Float64Var(&keyMaxPrice, "max-price", 0, "maximum price")
	f.StringVar(&keyStartDate, "start-date", "", "start date (yyyy-mm-dd or RFC 3339)")
	f.StringVar(&keyEndDate, "end-date", "", "end date (yyyy-mm-dd or RFC 3339)")
}

// filterFromFlags only sets the fields whose flags were given
func filterFromFlags(cmd *cobra.Command) (entity.SearchFilter, error) {
	var filter entity.SearchFilter
	flags := cmd.Flags()

	if flags.Changed("keyword") {
		kw := keyKeyword
		filter.Keyword = &kw
	}
	if flags.Changed("min-price") {
		v := keyMinPrice
		filter.MinPrice = &v
	}
	if flags.Changed("max-price") {
		v := keyMaxPrice
		filter.MaxPrice = &v
	}
	if flags.Changed("start-date") {
		t, err := parseDateFlag("start-date", keyStartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &t
	}
	if flags.Changed("end-date") {
		t, err := parseDateFlag("end-date", keyEndDate)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func parseDateFlag(name, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: invalid date %q", name, raw)
	}
	return t, nil
}
