package calculator

import (
	"strconv"
	"strings"
)

// EmissionFactor is the kg of CO2 attributed to each kg of paper.
const EmissionFactor = 0.46

const gramsPerKg = 1000

// ParseSheetCount parses user-entered sheet count text.
// It reports false for anything that is not a base-10 integer greater than zero.
func ParseSheetCount(text string) (int, bool) {
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || count <= 0 {
		return 0, false
	}
	return count, true
}

// Calculate derives the per-sheet weight and CO2 saved for the input.
// It reports false when the input cannot produce a result: a non-positive
// sheet count or a size/weight outside the offered tables.
func Calculate(in Input) (Result, bool) {
	if in.Sheets <= 0 || !in.GSM.Valid() {
		return Result{}, false
	}
	area, ok := AreaFactor(in.Size)
	if !ok {
		return Result{}, false
	}

	perSheet := area * float64(in.GSM)
	totalWeightKg := perSheet * float64(in.Sheets) / gramsPerKg

	return Result{
		PerSheetWeightGrams: perSheet,
		CO2SavedKg:          totalWeightKg * EmissionFactor,
	}, true
}

// CalculateText parses the sheet count text and calculates in one step.
func CalculateText(size PaperSize, gsm GSM, sheetText string) (Result, bool) {
	sheets, ok := ParseSheetCount(sheetText)
	if !ok {
		return Result{}, false
	}
	return Calculate(Input{Size: size, GSM: gsm, Sheets: sheets})
}
