package workbook

import (
	"bytes"
	"strings"
	"testing"

	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "CARTA"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "01-MAI"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "SALDO"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", 1234.5))
	require.NoError(t, f.SetCellValue("Sheet1", "C3", "1.234,56"))
	require.NoError(t, f.SetCellValue("Sheet1", "D3", "123"))
	_, err := f.NewSheet("Regional")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Regional", "A1", "NORTE"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoad_XLSX(t *testing.T) {
	sheets, err := NewLoader(0).Load("Relatorio.XLSX", bytes.NewReader(buildXLSX(t)))
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	first := sheets[0]
	assert.Equal(t, "Sheet1", first.Name)
	require.Len(t, first.Rows, 3)
	assert.Equal(t, domain.TextCell("CARTA"), first.Rows[0][0])
	assert.True(t, first.Rows[1].IsBlank())

	data := first.Rows[2]
	assert.Equal(t, domain.CellNumber, data[1].Kind)
	assert.Equal(t, 1234.5, data[1].Num)
	assert.Equal(t, domain.TextCell("1.234,56"), data[2])
	// texto numérico continua texto; quem decide é o parser de locale
	assert.Equal(t, domain.TextCell("123"), data[3])

	assert.Equal(t, "Regional", sheets[1].Name)
	assert.Equal(t, "NORTE", sheets[1].Rows[0][0].Str)
}

func TestLoad_RejectsExtension(t *testing.T) {
	_, err := NewLoader(0).Load("dados.csv", strings.NewReader("a;b"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedFormat))
}

func TestLoad_RejectsContentThatIsNotASpreadsheet(t *testing.T) {
	_, err := NewLoader(0).Load("falso.xlsx", strings.NewReader("%PDF-1.4 não é planilha"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedFormat))
}

func TestLoad_CorruptedZip(t *testing.T) {
	payload := append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("lixo")...)
	_, err := NewLoader(0).Load("quebrado.xlsx", bytes.NewReader(payload))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFile))
}

func TestLoad_FileTooLarge(t *testing.T) {
	data := buildXLSX(t)
	_, err := NewLoader(int64(len(data)-1)).Load("grande.xlsx", bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeFileTooLarge))
}

func TestSniff(t *testing.T) {
	format, err := Sniff([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00})
	require.NoError(t, err)
	assert.Equal(t, FormatXLS, format)

	format, err = Sniff([]byte("PK\x03\x04resto"))
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = Sniff(nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFile))
}

func TestNumericOrText(t *testing.T) {
	assert.Equal(t, domain.NumberCell(42), numericOrText("42"))
	assert.Equal(t, domain.NumberCell(-1.5), numericOrText(" -1.5 "))
	assert.Equal(t, domain.TextCell("1.234,56"), numericOrText("1.234,56"))
	assert.Equal(t, domain.TextCell("NaN"), numericOrText("NaN"))
	assert.Equal(t, domain.EmptyCell(), numericOrText("  "))
}
