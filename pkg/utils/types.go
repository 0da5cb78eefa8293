package utils

// Constants
const (
	// DATE_LAYOUT is the dd/mm/yyyy format used by client-facing trip projections
	DATE_LAYOUT = "02/01/2006"

	// TICKER_DATE_LAYOUT is the yymmdd prefix of a trip ticker
	TICKER_DATE_LAYOUT = "060102"

	// TICKER_SUFFIX_LENGTH is the number of random uppercase letters after the dash
	TICKER_SUFFIX_LENGTH = 4
)
