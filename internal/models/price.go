package models

import (
	"fmt"
	"sort"
	"time"
)

// PriceData represents one daily bar for a ticker
type PriceData struct {
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// PriceSeries is the close series of a single ticker keyed by trading date
type PriceSeries struct {
	Symbol string
	Closes map[time.Time]float64
}

// NewPriceSeries builds a series from daily bars, using the adjusted close
// when the provider supplied one.
func NewPriceSeries(symbol string, prices []PriceData) PriceSeries {
	closes := make(map[time.Time]float64, len(prices))
	for _, p := range prices {
		c := p.AdjustedClose
		if c == 0 {
			c = p.Close
		}
		closes[dateOnly(p.Date)] = c
	}
	return PriceSeries{Symbol: symbol, Closes: closes}
}

// PriceTable is a date-indexed table of closes, one column per ticker.
// Dates are strictly ascending and every cell is populated.
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Rows    [][]float64
}

// MergeSeries inner-joins the series on date. Dates missing from any series
// are dropped; the number of dropped dates is returned alongside the table.
func MergeSeries(series []PriceSeries) (*PriceTable, int, error) {
	if len(series) == 0 {
		return nil, 0, fmt.Errorf("no price series to merge")
	}

	union := make(map[time.Time]struct{})
	for _, s := range series {
		for d := range s.Closes {
			union[d] = struct{}{}
		}
	}

	table := &PriceTable{Tickers: make([]string, len(series))}
	for i, s := range series {
		table.Tickers[i] = s.Symbol
	}

	for d := range union {
		present := true
		for _, s := range series {
			if _, ok := s.Closes[d]; !ok {
				present = false
				break
			}
		}
		if present {
			table.Dates = append(table.Dates, d)
		}
	}
	sort.Slice(table.Dates, func(i, j int) bool {
		return table.Dates[i].Before(table.Dates[j])
	})

	table.Rows = make([][]float64, len(table.Dates))
	for r, d := range table.Dates {
		row := make([]float64, len(series))
		for c, s := range series {
			row[c] = s.Closes[d]
		}
		table.Rows[r] = row
	}

	return table, len(union) - len(table.Dates), nil
}

// Len returns the number of rows in the table
func (t *PriceTable) Len() int {
	return len(t.Dates)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
