package calculator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Paper sizes offered by the tracker, largest first.
const (
	A0 PaperSize = "A0"
	A1 PaperSize = "A1"
	A2 PaperSize = "A2"
	A3 PaperSize = "A3"
	A4 PaperSize = "A4"
	A5 PaperSize = "A5"
)

var paperSizes = []PaperSize{A0, A1, A2, A3, A4, A5}

// areaFactors are sheet areas relative to A0.
var areaFactors = map[PaperSize]float64{
	A0: 1.0,
	A1: 0.5,
	A2: 0.25,
	A3: 0.125,
	A4: 0.06237,
	A5: 0.03118,
}

var gsmOptions = []GSM{70, 80, 100, 120, 150, 200, 300}

// PaperSizes returns the offered paper sizes, largest first.
func PaperSizes() []PaperSize {
	return slices.Clone(paperSizes)
}

// GSMOptions returns the offered paper weights in ascending order.
func GSMOptions() []GSM {
	return slices.Clone(gsmOptions)
}

// AreaFactor returns the area of size relative to A0.
func AreaFactor(size PaperSize) (float64, bool) {
	factor, ok := areaFactors[size]
	return factor, ok
}

// Valid reports whether the size is in the size table.
func (s PaperSize) Valid() bool {
	_, ok := areaFactors[s]
	return ok
}

// Valid reports whether the weight is one of the offered options.
func (g GSM) Valid() bool {
	return slices.Contains(gsmOptions, g)
}

// ParsePaperSize resolves a size tag, ignoring case and surrounding whitespace.
func ParsePaperSize(raw string) (PaperSize, error) {
	size := PaperSize(strings.ToUpper(strings.TrimSpace(raw)))
	if !size.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrUnknownPaperSize, raw)
	}
	return size, nil
}

// ParseGSM resolves a paper weight given as a decimal string.
func ParseGSM(raw string) (GSM, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrUnsupportedGSM, raw)
	}
	gsm := GSM(value)
	if !gsm.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrUnsupportedGSM, value)
	}
	return gsm, nil
}
