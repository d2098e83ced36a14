package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = market data, W3xxx = optimization.
type WarningCode string

const (
	WarnDatesDropped   WarningCode = "W2001" // dates missing from at least one ticker were dropped by the join
	WarnShortHistory   WarningCode = "W2002" // fewer aligned rows than a reliable covariance estimate needs
	WarnWeightsCleaned WarningCode = "W3001" // non-zero weights below the cutoff were zeroed
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
