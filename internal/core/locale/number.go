package locale

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"ingestion-service/internal/domain"
)

// NumberVariant seleciona o comportamento do parser para cada relatório.
type NumberVariant int

const (
	// Strict é usado por estoque e logística: sem fallback, com limite de magnitude.
	Strict NumberVariant = iota
	// Lenient é usado pelo relatório mensal de propostas: sem limite de magnitude e,
	// se a string normalizada não for numérica, tenta de novo só com dígitos, "-" e ".".
	Lenient
)

// MaxMagnitude descarta células corrompidas (ex.: códigos de barras lidos como número).
const MaxMagnitude = 1e12

var (
	emptyCashRegex = regexp.MustCompile(`^(R\$)?\s*-?\s*$`)
	errorTokens    = map[string]struct{}{
		"#DIV/0!": {},
		"#N/A":    {},
		"#VALOR!": {},
		"#REF!":   {},
		"#NOME?":  {},
		"#NULL!":  {},
	}
)

// ParseNumber converte uma célula em número. O segundo retorno falso é o
// sentinela "sem valor"; zero é um resultado válido e distinto de ausente.
func ParseNumber(c domain.Cell, variant NumberVariant) (float64, bool) {
	switch c.Kind {
	case domain.CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		return c.Num, true
	case domain.CellString:
		return ParseNumberString(c.Str, variant)
	}
	return 0, false
}

// ParseNumberString aplica as regras de número brasileiro (R$, milhar com
// ponto, decimal com vírgula) a um texto.
func ParseNumberString(raw string, variant NumberVariant) (float64, bool) {
	if IsNullMarker(raw) {
		return 0, false
	}
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))

	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}

	f, ok := parseFinite(s)
	if !ok && variant == Lenient {
		f, ok = parseFinite(keepNumericRunes(s))
	}
	if !ok {
		return 0, false
	}
	if variant == Strict && math.Abs(f) > MaxMagnitude {
		return 0, false
	}
	return f, true
}

// IsNullMarker indica textos que representam ausência explícita de valor:
// vazio, "-", "R$ -" e códigos de erro do Excel.
func IsNullMarker(raw string) bool {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if s == "" || s == "-" || emptyCashRegex.MatchString(s) {
		return true
	}
	_, isError := errorTokens[strings.ToUpper(s)]
	return isError
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// keepNumericRunes mantém apenas dígitos, sinal e ponto; um ponto isolado vira decimal.
func keepNumericRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
