package sheet

import (
	"strings"

	"ingestion-service/internal/core/locale"

	"github.com/schollz/closestmatch"
)

// Vocabulary é um conjunto fixo de rótulos de seção comparados sem acento e
// sem diferenciar maiúsculas. Também sugere o rótulo mais próximo para
// linhas que não casaram com nenhum.
type Vocabulary struct {
	labels   map[string]string
	prefixes []string
	matcher  *closestmatch.ClosestMatch
}

// NewVocabulary cria um vocabulário com correspondência exata.
func NewVocabulary(labels ...string) *Vocabulary {
	v := &Vocabulary{labels: make(map[string]string, len(labels))}
	keys := make([]string, 0, len(labels))
	for _, l := range labels {
		key := locale.NormalizeLabel(l)
		if key == "" {
			continue
		}
		if _, dup := v.labels[key]; !dup {
			keys = append(keys, key)
		}
		v.labels[key] = key
	}
	if len(keys) > 0 {
		v.matcher = closestmatch.New(keys, []int{2, 3})
	}
	return v
}

// WithPrefixes acrescenta prefixos que também contam como correspondência
// (ex.: qualquer rótulo iniciado por "OBSERVACAO").
func (v *Vocabulary) WithPrefixes(prefixes ...string) *Vocabulary {
	for _, p := range prefixes {
		if key := locale.NormalizeLabel(p); key != "" {
			v.prefixes = append(v.prefixes, key)
		}
	}
	return v
}

// Lookup devolve o rótulo canônico se o texto normalizado pertencer ao vocabulário.
func (v *Vocabulary) Lookup(normalized string) (string, bool) {
	if v == nil || normalized == "" {
		return "", false
	}
	if canonical, ok := v.labels[normalized]; ok {
		return canonical, true
	}
	for _, p := range v.prefixes {
		if strings.HasPrefix(normalized, p) {
			return p, true
		}
	}
	return "", false
}

// Suggest devolve o rótulo conhecido mais parecido, ou "" quando não há candidato.
func (v *Vocabulary) Suggest(normalized string) string {
	if v == nil || v.matcher == nil || len(normalized) < 3 {
		return ""
	}
	return v.matcher.Closest(normalized)
}
