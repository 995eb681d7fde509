package locale

import (
	"regexp"
	"strconv"
	"time"

	"ingestion-service/internal/domain"
)

// ISODate é o layout usado em todos os mapas de coluna de data.
const ISODate = "2006-01-02"

// Intervalo plausível de serial de data de planilha (≈1954 a ≈2064).
const (
	minDateSerial = 20000
	maxDateSerial = 60000
)

var monthTable = map[string]time.Month{
	"JAN": time.January,
	"FEV": time.February,
	"MAR": time.March,
	"ABR": time.April,
	"MAI": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AGO": time.August,
	"SET": time.September,
	"OUT": time.October,
	"NOV": time.November,
	"DEZ": time.December,
}

var (
	yearFirstRegex  = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})(?:$|[\sT])`)
	yearLastRegex   = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})(?:$|\s)`)
	monthYearRegex  = regexp.MustCompile(`^([A-Z]{3})[./-]?(\d{2})$`)
	dayMonthRegex   = regexp.MustCompile(`^(\d{1,2})[-/ ]?([A-Z]{3})[A-Z]*\.?$`)
	serialRegex     = regexp.MustCompile(`^\d{5}(\.\d+)?$`)
	titleDateRegex  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/(\d{4})\b`)
	titleYearRegex  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	excelEpochStart = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

// ParseHeaderDate converte uma célula de cabeçalho em data ISO (UTC, precisão de dia).
// fileYear resolve cabeçalhos sem ano; now é a data de referência do "mundo real".
func ParseHeaderDate(c domain.Cell, fileYear int, now time.Time) (string, bool) {
	t, ok := ParseHeaderTime(c, fileYear, now)
	if !ok {
		return "", false
	}
	return t.Format(ISODate), true
}

// ParseHeaderTime é a versão de ParseHeaderDate que devolve time.Time.
func ParseHeaderTime(c domain.Cell, fileYear int, now time.Time) (time.Time, bool) {
	if fileYear == 0 {
		fileYear = now.Year()
	}

	switch c.Kind {
	case domain.CellDate:
		y, m, d := c.Time.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	case domain.CellNumber:
		return fromSerial(c.Num, now)
	case domain.CellString:
		return parseHeaderText(c.Str, fileYear, now)
	}
	return time.Time{}, false
}

func parseHeaderText(raw string, fileYear int, now time.Time) (time.Time, bool) {
	s := NormalizeLabel(raw)
	if s == "" {
		return time.Time{}, false
	}

	if m := yearFirstRegex.FindStringSubmatch(s); m != nil {
		return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := yearLastRegex.FindStringSubmatch(s); m != nil {
		return buildDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := monthYearRegex.FindStringSubmatch(s); m != nil {
		month, ok := monthTable[m[1]]
		if !ok {
			return time.Time{}, false
		}
		return buildDate(2000+atoi(m[2]), int(month), 1)
	}
	if m := dayMonthRegex.FindStringSubmatch(s); m != nil {
		month, ok := monthTable[m[2]]
		if !ok {
			return time.Time{}, false
		}
		year := rollBackFutureMonth(fileYear, month, now)
		return buildDate(year, int(month), atoi(m[1]))
	}
	if serialRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return fromSerial(f, now)
		}
	}
	return time.Time{}, false
}

// rollBackFutureMonth: relatórios de virada de ano citam meses do ano anterior sem
// informar o ano; um mês "no futuro" dentro do ano corrente pertence ao ano passado.
func rollBackFutureMonth(year int, month time.Month, now time.Time) int {
	if year == now.Year() && month > now.Month() {
		return year - 1
	}
	return year
}

func fromSerial(serial float64, now time.Time) (time.Time, bool) {
	if serial < minDateSerial || serial > maxDateSerial {
		return time.Time{}, false
	}
	t := SerialToDate(serial)
	year := rollBackFutureMonth(t.Year(), t.Month(), now)
	return buildDate(year, int(t.Month()), t.Day())
}

// SerialToDate converte um serial de data de planilha (base 1899-12-30) em data UTC.
func SerialToDate(serial float64) time.Time {
	days := int(serial)
	return excelEpochStart.AddDate(0, 0, days)
}

// buildDate valida os limites e rejeita dias inexistentes (31/02 não vira 02/03).
func buildDate(year, month, day int) (time.Time, bool) {
	if year <= 1990 || year >= 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// InferFileYear procura o ano de referência em textos de título: primeiro uma
// data D/M/AAAA, depois um ano solto de quatro dígitos.
func InferFileYear(texts []string) (int, bool) {
	for _, text := range texts {
		if m := titleDateRegex.FindStringSubmatch(text); m != nil {
			if y := atoi(m[1]); y > 1990 && y < 2100 {
				return y, true
			}
		}
	}
	for _, text := range texts {
		if m := titleYearRegex.FindStringSubmatch(text); m != nil {
			if y := atoi(m[1]); y > 1990 && y < 2100 {
				return y, true
			}
		}
	}
	return 0, false
}

// MonthStart devolve o primeiro dia do mês de uma data ISO.
func MonthStart(isoDate string) string {
	t, err := time.Parse(ISODate, isoDate)
	if err != nil {
		return ""
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(ISODate)
}
