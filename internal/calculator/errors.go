package calculator

import "errors"

var (
	// ErrUnknownPaperSize is returned when a paper size tag is not in the size table.
	ErrUnknownPaperSize = errors.New("paper size must be one of A0, A1, A2, A3, A4, A5")
	// ErrUnsupportedGSM is returned when a paper weight is not one of the offered GSM options.
	ErrUnsupportedGSM = errors.New("paper weight must be one of 70, 80, 100, 120, 150, 200, 300 gsm")
)
