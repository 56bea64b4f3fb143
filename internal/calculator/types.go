package calculator

// PaperSize is an ISO 216 A-series sheet tag.
type PaperSize string

// GSM is a paper weight in grams per square metre.
type GSM int

// Input holds one calculation request. It is only valid when Sheets is positive.
type Input struct {
	Size   PaperSize
	GSM    GSM
	Sheets int
}

// Result is the unrounded outcome of a calculation.
// Display rounding is left to callers so that full precision survives until formatting.
type Result struct {
	PerSheetWeightGrams float64
	CO2SavedKg          float64
}
