package workbook

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

var (
	plainNumberRegex = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Format é o formato de planilha reconhecido.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Loader lê o arquivo enviado e materializa todas as abas em memória.
type Loader struct {
	maxBytes int64
}

// NewLoader cria um Loader; maxBytes <= 0 desativa o limite de tamanho.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load valida extensão, tamanho e assinatura do arquivo e devolve as abas.
// Nada é lido como planilha antes dessas verificações.
func (l *Loader) Load(fileName string, r io.Reader) ([]domain.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".xlsx" && ext != ".xls" {
		if ext == "" {
			ext = "sem extensão"
		}
		return nil, apperrors.UnsupportedFormat(ext)
	}

	data, err := l.readAll(r)
	if err != nil {
		return nil, err
	}

	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(data)
	default:
		return readXLS(data)
	}
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, apperrors.InvalidFileWrap(err, "não foi possível ler o arquivo enviado")
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, apperrors.InvalidFileWrap(err, "não foi possível ler o arquivo enviado")
	}
	if int64(len(data)) > l.maxBytes {
		return nil, apperrors.FileTooLarge(l.maxBytes >> 20)
	}
	return data, nil
}

// Sniff identifica o formato pela assinatura dos primeiros bytes.
func Sniff(data []byte) (Format, error) {
	switch {
	case len(data) == 0:
		return "", apperrors.InvalidFile("o arquivo enviado está vazio")
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	}
	return "", apperrors.UnsupportedFormat("conteúdo não reconhecido como planilha")
}

// ---------------------- xlsx ----------------------

func readXLSX(data []byte) ([]domain.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.InvalidFileWrap(err, "erro ao abrir arquivo .xlsx")
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, apperrors.InvalidFile("o arquivo .xlsx não contém planilhas")
	}

	sheets := make([]domain.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.InvalidFileWrap(err, fmt.Sprintf("erro ao ler a aba %q", name))
		}
		s := domain.Sheet{Name: name, Rows: make([]domain.Row, len(rows))}
		for r, raw := range rows {
			row := make(domain.Row, len(raw))
			for c, value := range raw {
				row[c] = xlsxCell(f, name, r, c, value)
			}
			s.Rows[r] = row
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// xlsxCell converte o valor bruto usando o tipo declarado da célula: textos
// (compartilhados, inline, fórmulas de texto, erros) nunca viram número.
func xlsxCell(f *excelize.File, sheet string, r, c int, value string) domain.Cell {
	if strings.TrimSpace(value) == "" {
		return domain.EmptyCell()
	}
	ref, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return domain.TextCell(value)
	}
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return domain.TextCell(value)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError:
		return domain.TextCell(value)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return domain.DateCell(t)
		}
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return domain.DateCell(t)
		}
	}
	return numericOrText(value)
}

// ---------------------- xls ----------------------

func readXLS(data []byte) ([]domain.Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.InvalidFileWrap(err, "erro ao abrir arquivo .xls")
	}

	count := workbook.GetNumberSheets()
	if count == 0 {
		return nil, apperrors.InvalidFile("o arquivo .xls não contém planilhas")
	}

	sheets := make([]domain.Sheet, 0, count)
	for i := 0; i < count; i++ {
		sheet, err := workbook.GetSheet(i)
		if err != nil {
			return nil, apperrors.InvalidFileWrap(err, fmt.Sprintf("erro ao obter a aba %d do arquivo .xls", i+1))
		}
		if sheet == nil {
			continue
		}
		s := domain.Sheet{Name: sheet.GetName()}
		// linhas ausentes no arquivo viram linhas vazias: a posição importa para o rastreador
		for r := 0; r < int(sheet.GetNumberRows()); r++ {
			row, err := sheet.GetRow(r)
			if err != nil || row == nil {
				s.Rows = append(s.Rows, domain.Row{})
				continue
			}
			cols := row.GetCols()
			out := make(domain.Row, len(cols))
			for c, cell := range cols {
				if cell == nil {
					out[c] = domain.EmptyCell()
					continue
				}
				out[c] = numericOrText(cell.GetString())
			}
			s.Rows = append(s.Rows, out)
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// numericOrText trata como número apenas textos no formato numérico nativo
// (ponto decimal, sem milhar); o resto fica como texto para o parser de locale.
func numericOrText(value string) domain.Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return domain.EmptyCell()
	}
	if plainNumberRegex.MatchString(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return domain.NumberCell(f)
		}
	}
	return domain.TextCell(value)
}
