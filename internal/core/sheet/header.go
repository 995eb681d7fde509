package sheet

import (
	"sort"
	"strings"
	"time"

	"ingestion-service/internal/core/locale"
	"ingestion-service/internal/domain"
)

// FixedScanRows é quantas linhas do topo são examinadas à procura do cabeçalho fixo.
const FixedScanRows = 10

// DateColumnMap associa índice de coluna a uma data ISO.
type DateColumnMap map[int]string

// Columns devolve os índices em ordem crescente.
func (m DateColumnMap) Columns() []int {
	cols := make([]int, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// HeaderOptions controla a leitura de uma linha de cabeçalho.
type HeaderOptions struct {
	LabelColumn          int
	SkipPercentCompanion bool
}

// SectionHeader é o resultado da leitura de uma linha de cabeçalho.
type SectionHeader struct {
	Dates         DateColumnMap
	TotalColumn   int
	AverageColumn int
	// Unparsed lista colunas não vazias que não viraram data nem TOTAL/MÉDIA.
	Unparsed []int
}

// ParseSectionHeader lê as células à direita da coluna de rótulo como datas.
// Uma coluna logo após uma data cujo cabeçalho contém "%" é companheira de
// percentual e é pulada.
func ParseSectionHeader(row domain.Row, fileYear int, now time.Time, opts HeaderOptions) SectionHeader {
	h := SectionHeader{Dates: make(DateColumnMap), TotalColumn: -1, AverageColumn: -1}

	for col := opts.LabelColumn + 1; col < len(row); col++ {
		cell := row[col]
		if cell.IsEmpty() {
			continue
		}
		label := locale.NormalizeLabel(cell.String())
		switch {
		case isTotalLabel(label):
			h.TotalColumn = col
			continue
		case isAverageLabel(label):
			h.AverageColumn = col
			continue
		}

		if date, ok := locale.ParseHeaderDate(cell, fileYear, now); ok {
			h.Dates[col] = date
			if opts.SkipPercentCompanion && strings.Contains(row.At(col+1).String(), "%") {
				col++
			}
			continue
		}
		if strings.Contains(label, "%") {
			continue
		}
		h.Unparsed = append(h.Unparsed, col)
	}
	return h
}

func isTotalLabel(label string) bool {
	return label == "TOTAL" || strings.HasPrefix(label, "TOTAL ")
}

func isAverageLabel(label string) bool {
	return label == "MEDIA" || strings.HasPrefix(label, "MEDIA ")
}

// FixedHeader é o cabeçalho global do relatório mensal de propostas.
type FixedHeader struct {
	SectionHeader
	RowIndex int
	FileYear int
}

// LocateFixedHeader examina as primeiras FixedScanRows linhas e aceita a primeira
// com pelo menos duas datas e uma coluna TOTAL ou MÉDIA. O ano do arquivo vem do
// título uma ou duas linhas acima; sem título, vale o ano corrente.
func LocateFixedHeader(s domain.Sheet, now time.Time, opts HeaderOptions) (FixedHeader, bool) {
	limit := FixedScanRows
	if len(s.Rows) < limit {
		limit = len(s.Rows)
	}
	for i := 0; i < limit; i++ {
		row := s.Rows[i]
		if row.IsBlank() {
			continue
		}
		fileYear, ok := locale.InferFileYear(textCells(s.Rows, i-2, i))
		if !ok {
			fileYear = now.Year()
		}
		h := ParseSectionHeader(row, fileYear, now, opts)
		if len(h.Dates) >= 2 && (h.TotalColumn >= 0 || h.AverageColumn >= 0) {
			return FixedHeader{SectionHeader: h, RowIndex: i, FileYear: fileYear}, true
		}
	}
	return FixedHeader{}, false
}

// InferSheetYear procura o ano do relatório nos textos das primeiras linhas.
func InferSheetYear(s domain.Sheet, now time.Time) int {
	if year, ok := locale.InferFileYear(textCells(s.Rows, 0, FixedScanRows)); ok {
		return year
	}
	return now.Year()
}

// textCells devolve os textos das linhas [from, to), ignorando índices fora da aba.
func textCells(rows []domain.Row, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(rows) {
		to = len(rows)
	}
	var out []string
	for i := from; i < to; i++ {
		for _, c := range rows[i] {
			if c.Kind == domain.CellString && strings.TrimSpace(c.Str) != "" {
				out = append(out, c.Str)
			}
		}
	}
	return out
}
