package calculator

import (
	"errors"
	"math"
	"slices"
	"testing"
)

const tolerance = 1e-12

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        Input
		wantWeight   float64
		wantCO2      float64
		wantNoResult bool
	}{
		{
			name:       "A4Reference",
			input:      Input{Size: A4, GSM: 80, Sheets: 100},
			wantWeight: 4.9896,
			wantCO2:    0.2295216,
		},
		{
			name:       "A4SingleSheet",
			input:      Input{Size: A4, GSM: 80, Sheets: 1},
			wantWeight: 4.9896,
			wantCO2:    0.002295216,
		},
		{
			name:       "A0Heavy",
			input:      Input{Size: A0, GSM: 300, Sheets: 10},
			wantWeight: 300,
			wantCO2:    1.38,
		},
		{
			name:       "A5Light",
			input:      Input{Size: A5, GSM: 70, Sheets: 1000},
			wantWeight: 2.1826,
			wantCO2:    1.003996,
		},
		{
			name:         "ZeroSheets",
			input:        Input{Size: A4, GSM: 80, Sheets: 0},
			wantNoResult: true,
		},
		{
			name:         "NegativeSheets",
			input:        Input{Size: A4, GSM: 80, Sheets: -5},
			wantNoResult: true,
		},
		{
			name:         "UnknownSize",
			input:        Input{Size: "B5", GSM: 80, Sheets: 10},
			wantNoResult: true,
		},
		{
			name:         "UnsupportedGSM",
			input:        Input{Size: A4, GSM: 90, Sheets: 10},
			wantNoResult: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Calculate(tc.input)
			if tc.wantNoResult {
				if ok {
					t.Fatalf("expected no result, got %+v", got)
				}
				if got != (Result{}) {
					t.Fatalf("expected zero result alongside false, got %+v", got)
				}
				return
			}
			if !ok {
				t.Fatalf("expected a result for %+v", tc.input)
			}
			if math.Abs(got.PerSheetWeightGrams-tc.wantWeight) > tolerance {
				t.Fatalf("expected weight %v, got %v", tc.wantWeight, got.PerSheetWeightGrams)
			}
			if math.Abs(got.CO2SavedKg-tc.wantCO2) > tolerance {
				t.Fatalf("expected co2 %v, got %v", tc.wantCO2, got.CO2SavedKg)
			}
		})
	}
}

func TestCalculateMatchesSimplifiedFormula(t *testing.T) {
	t.Parallel()

	for _, size := range PaperSizes() {
		area, _ := AreaFactor(size)
		for _, gsm := range GSMOptions() {
			for _, sheets := range []int{1, 7, 100, 2500, 1_000_000} {
				got, ok := Calculate(Input{Size: size, GSM: gsm, Sheets: sheets})
				if !ok {
					t.Fatalf("expected result for %s/%d/%d", size, gsm, sheets)
				}
				want := area * float64(gsm) * float64(sheets) * 0.00046
				if math.Abs(got.CO2SavedKg-want) > 1e-9*math.Max(1, want) {
					t.Fatalf("%s/%d/%d: expected %v, got %v", size, gsm, sheets, want, got.CO2SavedKg)
				}
			}
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	t.Parallel()

	in := Input{Size: A3, GSM: 120, Sheets: 42}
	first, ok1 := Calculate(in)
	second, ok2 := Calculate(in)
	if ok1 != ok2 || first != second {
		t.Fatalf("expected identical results, got %+v/%v and %+v/%v", first, ok1, second, ok2)
	}
}

func TestParseSheetCount(t *testing.T) {
	t.Parallel()

	valid := map[string]int{
		"1":      1,
		"100":    100,
		" 25 ":   25,
		"+8":     8,
		"007":    7,
		"123456": 123456,
	}
	for text, want := range valid {
		got, ok := ParseSheetCount(text)
		if !ok || got != want {
			t.Fatalf("ParseSheetCount(%q) = %d, %v; want %d, true", text, got, ok, want)
		}
	}

	for _, text := range []string{"", "   ", "0", "-3", "abc", "12abc", "3.5", "1e3"} {
		if got, ok := ParseSheetCount(text); ok {
			t.Fatalf("ParseSheetCount(%q) = %d, true; want false", text, got)
		}
	}
}

// Number inputs submit fractions and exponent notation verbatim. Neither is
// truncated to a leading integer.
func TestParseSheetCountRejectsNonIntegerNotation(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"1.5", "1.0", "1e3", "1E3", "0x10", "1_000", "10 sheets"} {
		if got, ok := ParseSheetCount(text); ok {
			t.Fatalf("ParseSheetCount(%q) = %d, true; want false", text, got)
		}
	}
}

func TestCalculateText(t *testing.T) {
	t.Parallel()

	if _, ok := CalculateText(A4, 80, ""); ok {
		t.Fatalf("expected empty sheet text to yield no result")
	}
	got, ok := CalculateText(A4, 80, "100")
	if !ok {
		t.Fatalf("expected a result")
	}
	if math.Abs(got.CO2SavedKg-0.2295216) > tolerance {
		t.Fatalf("unexpected co2 %v", got.CO2SavedKg)
	}
}

func TestParsePaperSize(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]PaperSize{"A4": A4, "a0": A0, " a5 ": A5} {
		got, err := ParsePaperSize(raw)
		if err != nil {
			t.Fatalf("ParsePaperSize(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParsePaperSize(%q) = %s, want %s", raw, got, want)
		}
	}

	for _, raw := range []string{"", "A6", "letter"} {
		if _, err := ParsePaperSize(raw); !errors.Is(err, ErrUnknownPaperSize) {
			t.Fatalf("expected ErrUnknownPaperSize for %q, got %v", raw, err)
		}
	}
}

func TestParseGSM(t *testing.T) {
	t.Parallel()

	got, err := ParseGSM(" 150 ")
	if err != nil || got != 150 {
		t.Fatalf("ParseGSM returned %d, %v", got, err)
	}

	for _, raw := range []string{"", "90", "eighty", "-80"} {
		if _, err := ParseGSM(raw); !errors.Is(err, ErrUnsupportedGSM) {
			t.Fatalf("expected ErrUnsupportedGSM for %q, got %v", raw, err)
		}
	}
}

func TestTablesAreDefensiveCopies(t *testing.T) {
	t.Parallel()

	sizes := PaperSizes()
	sizes[0] = "Z9"
	if !slices.Equal(PaperSizes(), []PaperSize{A0, A1, A2, A3, A4, A5}) {
		t.Fatalf("expected paper sizes to be unaffected by caller mutation")
	}

	options := GSMOptions()
	options[0] = 1
	if GSMOptions()[0] != 70 {
		t.Fatalf("expected GSM options to be unaffected by caller mutation")
	}
}

func BenchmarkCalculate(b *testing.B) {
	in := Input{Size: A4, GSM: 80, Sheets: 500}
	for i := 0; i < b.N; i++ {
		if _, ok := Calculate(in); !ok {
			b.Fatalf("expected result")
		}
	}
}

func BenchmarkCalculateText(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, ok := CalculateText(A3, 120, "2500"); !ok {
			b.Fatalf("expected result")
		}
	}
}
