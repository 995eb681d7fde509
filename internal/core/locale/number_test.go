package locale

import (
	"math"
	"testing"

	"ingestion-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber_BrazilianFormats(t *testing.T) {
	tests := []struct {
		name  string
		cell  domain.Cell
		want  float64
		valid bool
	}{
		{"thousands and decimal comma", domain.TextCell("1.234,56"), 1234.56, true},
		{"currency", domain.TextCell("R$ 10,00"), 10, true},
		{"currency no space", domain.TextCell("R$10,5"), 10.5, true},
		{"negative currency", domain.TextCell("R$ -7,25"), -7.25, true},
		{"many thousand dots", domain.TextCell("1.234.567"), 1234567, true},
		{"plain integer", domain.TextCell(" 42 "), 42, true},
		{"native number", domain.NumberCell(3.5), 3.5, true},
		{"native zero is a value", domain.NumberCell(0), 0, true},
		{"text zero is a value", domain.TextCell("0"), 0, true},
		{"text zero with comma", domain.TextCell("0,00"), 0, true},
		{"lone dash", domain.TextCell("-"), 0, false},
		{"empty cash", domain.TextCell("R$ -"), 0, false},
		{"empty cash spaced", domain.TextCell("R$  - "), 0, false},
		{"empty string", domain.TextCell("   "), 0, false},
		{"null cell", domain.EmptyCell(), 0, false},
		{"date cell", domain.DateCell(refDate()), 0, false},
		{"error NA", domain.TextCell("#N/A"), 0, false},
		{"error div0", domain.TextCell("#DIV/0!"), 0, false},
		{"error lower case", domain.TextCell("#valor!"), 0, false},
		{"error ref", domain.TextCell("#REF!"), 0, false},
		{"error name", domain.TextCell("#NOME?"), 0, false},
		{"error null", domain.TextCell("#NULL!"), 0, false},
		{"garbage", domain.TextCell("abc"), 0, false},
		{"NaN number", domain.NumberCell(math.NaN()), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell, Strict)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseNumber_MagnitudeGuardOnlyInStrict(t *testing.T) {
	_, ok := ParseNumberString("7891234567890", Strict)
	assert.False(t, ok, "strict variant must reject corrupted magnitudes")

	v, ok := ParseNumberString("7891234567890", Lenient)
	assert.True(t, ok)
	assert.Equal(t, 7891234567890.0, v)
}

func TestParseNumber_LenientFallback(t *testing.T) {
	_, ok := ParseNumberString("85%", Strict)
	assert.False(t, ok)

	v, ok := ParseNumberString("85%", Lenient)
	assert.True(t, ok)
	assert.Equal(t, 85.0, v)

	v, ok = ParseNumberString("aprox 12.5", Lenient)
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
}

func TestParseNumber_SingleDotIsDecimal(t *testing.T) {
	for _, variant := range []NumberVariant{Strict, Lenient} {
		v, ok := ParseNumberString("1.5", variant)
		assert.True(t, ok)
		assert.Equal(t, 1.5, v)
	}
}
