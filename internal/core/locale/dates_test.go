package locale

import (
	"testing"
	"time"

	"ingestion-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refDate() time.Time {
	return time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)
}

func TestParseHeaderDate(t *testing.T) {
	now := refDate()

	tests := []struct {
		name     string
		cell     domain.Cell
		fileYear int
		want     string
		valid    bool
	}{
		{"day month abbreviation", domain.TextCell("15-JAN"), 2024, "2024-01-15", true},
		{"future month rolls back", domain.TextCell("15-DEZ"), 2024, "2023-12-15", true},
		{"future month from older file year", domain.TextCell("15-DEZ"), 2022, "2022-12-15", true},
		{"current month stays", domain.TextCell("01/jun"), 2024, "2024-06-01", true},
		{"accented abbreviation", domain.TextCell("3-fev."), 2024, "2024-02-03", true},
		{"long month name", domain.TextCell("10 MARCO"), 2024, "2024-03-10", true},
		{"zero file year uses now", domain.TextCell("2-MAR"), 0, "2024-03-02", true},
		{"iso date", domain.TextCell("2024-03-05"), 2020, "2024-03-05", true},
		{"iso date with time", domain.TextCell("2024-03-05T00:00:00"), 2020, "2024-03-05", true},
		{"brazilian date", domain.TextCell("05/03/2024"), 2020, "2024-03-05", true},
		{"brazilian dash date", domain.TextCell("5-3-2024"), 2020, "2024-03-05", true},
		{"month year", domain.TextCell("JAN.24"), 2020, "2024-01-01", true},
		{"month slash year", domain.TextCell("dez/23"), 2020, "2023-12-01", true},
		{"native date", domain.DateCell(time.Date(2024, 2, 29, 15, 0, 0, 0, time.Local)), 2020, "2024-02-29", true},
		{"serial number", domain.NumberCell(45292), 2024, "2024-01-01", true},
		{"serial string", domain.TextCell("45292"), 2024, "2024-01-01", true},
		{"serial in future month rolls back", domain.NumberCell(45627), 2024, "2023-12-01", true},
		{"year out of range", domain.TextCell("1985-01-01"), 2024, "", false},
		{"invalid day", domain.TextCell("31/02/2024"), 2024, "", false},
		{"unknown month", domain.TextCell("15-XYZ"), 2024, "", false},
		{"small number", domain.NumberCell(120), 2024, "", false},
		{"total label", domain.TextCell("TOTAL"), 2024, "", false},
		{"percent", domain.TextCell("%"), 2024, "", false},
		{"empty", domain.EmptyCell(), 2024, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHeaderDate(tt.cell, tt.fileYear, now)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialToDate(t *testing.T) {
	assert.Equal(t, "2024-01-01", SerialToDate(45292).Format(ISODate))
	assert.Equal(t, "2024-01-01", SerialToDate(45292.75).Format(ISODate))
}

func TestInferFileYear(t *testing.T) {
	year, ok := InferFileYear([]string{"RELATÓRIO DE PROPOSTAS - MAIO 2023"})
	require.True(t, ok)
	assert.Equal(t, 2023, year)

	year, ok = InferFileYear([]string{"Gerado em 3/7/2022 às 10h", "Ano base 2021"})
	require.True(t, ok)
	assert.Equal(t, 2022, year, "a full date wins over a bare year")

	_, ok = InferFileYear([]string{"PROPOSTAS", ""})
	assert.False(t, ok)
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, "2024-03-01", MonthStart("2024-03-17"))
	assert.Equal(t, "", MonthStart("nope"))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "DEVOLUCOES", NormalizeLabel("  Devoluções "))
	assert.Equal(t, "CENTRO-OESTE", NormalizeLabel("Centro-Oeste"))
	assert.Equal(t, "MEDIA", NormalizeLabel("MÉDIA"))
	assert.Equal(t, "CARTAO PLASTICO", NormalizeLabel("Cartão   plástico"))
}
