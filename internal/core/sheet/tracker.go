package sheet

import (
	"fmt"
	"time"

	"ingestion-service/internal/core/locale"
	"ingestion-service/internal/domain"
)

// State é o estado da máquina de seções de uma aba.
type State int

const (
	NoContext State = iota
	InCategory
	InRegion
	InItemBlock
)

func (s State) String() string {
	switch s {
	case InCategory:
		return "categoria"
	case InRegion:
		return "regiao"
	case InItemBlock:
		return "item"
	}
	return "sem_contexto"
}

// BlankRowPolicy define o efeito de uma linha totalmente vazia.
type BlankRowPolicy int

const (
	// BlankResets volta para NoContext e limpa o mapa de datas.
	BlankResets BlankRowPolicy = iota
	// BlankStops encerra a leitura da aba.
	BlankStops
)

// HeaderMode define de onde vêm as colunas de data.
type HeaderMode int

const (
	// SectionHeaders: cada linha de abertura de seção traz as próprias datas.
	SectionHeaders HeaderMode = iota
	// FixedColumns: um cabeçalho global define as datas; rótulos de seção só
	// trocam a categoria corrente.
	FixedColumns
)

// Profile parametriza o rastreador de seções para um tipo de relatório.
type Profile struct {
	Name         string
	SectionState State
	Openers      *Vocabulary
	Terminators  *Vocabulary
	// TerminatorsReset: um terminador com seção ativa volta para NoContext;
	// caso contrário a linha é só ignorada.
	TerminatorsReset     bool
	NonMetric            *Vocabulary
	HeaderMode           HeaderMode
	MinDates             int
	SkipPercentCompanion bool
	Summaries            bool
	BlankRow             BlankRowPolicy
	Numbers              locale.NumberVariant
	LabelColumn          int
}

// ParseContext é o estado mutável de uma aba, tratado como valor: cada passo
// devolve um novo contexto.
type ParseContext struct {
	State         State
	Section       string
	Dates         DateColumnMap
	TotalColumn   int
	AverageColumn int
	FileYear      int
	Halted        bool
	// SectionsOpened conta quantas seções foram aceitas até aqui.
	SectionsOpened int
}

// NewContext cria o contexto inicial de uma aba.
func NewContext(fileYear int) ParseContext {
	return ParseContext{FileYear: fileYear, TotalColumn: -1, AverageColumn: -1}
}

// Reset volta para NoContext com mapa de datas vazio, preservando o ano do arquivo.
func (c ParseContext) Reset() ParseContext {
	next := NewContext(c.FileYear)
	next.SectionsOpened = c.SectionsOpened
	next.Halted = c.Halted
	return next
}

// Category devolve a categoria corrente ou "".
func (c ParseContext) Category() string { return c.sectionIf(InCategory) }

// Region devolve a região corrente ou "".
func (c ParseContext) Region() string { return c.sectionIf(InRegion) }

// ItemType devolve o tipo de item corrente ou "".
func (c ParseContext) ItemType() string { return c.sectionIf(InItemBlock) }

func (c ParseContext) sectionIf(s State) string {
	if c.State == s {
		return c.Section
	}
	return ""
}

// ValueKind diferencia valores diários de TOTAL e MÉDIA do mês.
type ValueKind int

const (
	ValueDaily ValueKind = iota
	ValueTotal
	ValueAverage
)

// Extracted é um valor numérico lido de uma linha de dados, antes de virar registro.
type Extracted struct {
	Row     int
	Column  int
	Section string
	Label   string
	Date    string
	Value   float64
	Kind    ValueKind
}

// Tracker percorre as linhas de uma aba aplicando um Profile.
type Tracker struct {
	profile Profile
	sheet   int
	now     time.Time
	fixed   *SectionHeader
}

// NewTracker cria um rastreador para a aba de índice sheetIndex.
func NewTracker(p Profile, sheetIndex int, now time.Time) *Tracker {
	return &Tracker{profile: p, sheet: sheetIndex, now: now}
}

// WithFixedHeader instala o cabeçalho global usado no modo FixedColumns.
func (t *Tracker) WithFixedHeader(h SectionHeader) *Tracker {
	t.fixed = &h
	return t
}

// Walk aplica Step a partir da linha from até o fim da aba (ou até parar).
func (t *Tracker) Walk(s domain.Sheet, ctx ParseContext, from int) (ParseContext, []Extracted, []domain.Diagnostic) {
	var (
		values []Extracted
		diags  []domain.Diagnostic
	)
	for i := from; i < len(s.Rows); i++ {
		var ex []Extracted
		var d []domain.Diagnostic
		ctx, ex, d = t.Step(ctx, s.Rows[i], i)
		values = append(values, ex...)
		diags = append(diags, d...)
		if ctx.Halted {
			break
		}
	}
	return ctx, values, diags
}

// Step processa uma linha: (contexto, linha) -> (novo contexto, valores, diagnósticos).
func (t *Tracker) Step(ctx ParseContext, row domain.Row, index int) (ParseContext, []Extracted, []domain.Diagnostic) {
	if ctx.Halted {
		return ctx, nil, nil
	}

	if row.IsBlank() {
		if t.profile.BlankRow == BlankStops {
			ctx.Halted = true
			return ctx, nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonBlankStop, "",
				"linha em branco encerra a leitura da aba")}
		}
		if ctx.State == NoContext {
			return ctx.Reset(), nil, nil
		}
		return ctx.Reset(), nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonBlankReset, ctx.Section,
			fmt.Sprintf("linha em branco encerra a seção %s", ctx.Section))}
	}

	label := locale.NormalizeLabel(row.At(t.profile.LabelColumn).String())
	if label == "" {
		return ctx, nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonMissingLabel, "",
			"linha com valores mas sem rótulo na primeira coluna")}
	}

	if section, ok := t.profile.Openers.Lookup(label); ok {
		return t.open(ctx, section, row, index)
	}

	if _, ok := t.profile.Terminators.Lookup(label); ok {
		if ctx.State != NoContext && t.profile.TerminatorsReset {
			return ctx.Reset(), nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonTerminator, label,
				fmt.Sprintf("%s encerra a seção %s", label, ctx.Section))}
		}
		return ctx, nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonSkippedLabel, label,
			fmt.Sprintf("linha %s ignorada", label))}
	}

	if _, ok := t.profile.NonMetric.Lookup(label); ok {
		return ctx, nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonNonMetricLabel, label,
			fmt.Sprintf("%s não é uma métrica", label))}
	}

	if ctx.State == NoContext {
		d := t.diag(index, 0, domain.ReasonOrphanRow, label,
			fmt.Sprintf("%s está fora de qualquer seção e foi descartada", label))
		d.Suggestion = t.profile.Openers.Suggest(label)
		return ctx, nil, []domain.Diagnostic{d}
	}

	return t.extract(ctx, label, row, index)
}

func (t *Tracker) open(ctx ParseContext, section string, row domain.Row, index int) (ParseContext, []Extracted, []domain.Diagnostic) {
	next := ctx.Reset()

	if t.profile.HeaderMode == FixedColumns {
		if t.fixed == nil {
			return next, nil, []domain.Diagnostic{t.diag(index, 0, domain.ReasonSectionRejected, section,
				fmt.Sprintf("seção %s sem cabeçalho de datas", section))}
		}
		next.State = t.profile.SectionState
		next.Section = section
		next.Dates = t.fixed.Dates
		if t.profile.Summaries {
			next.TotalColumn = t.fixed.TotalColumn
			next.AverageColumn = t.fixed.AverageColumn
		}
		next.SectionsOpened++
		return next, nil, nil
	}

	h := ParseSectionHeader(row, ctx.FileYear, t.now, HeaderOptions{
		LabelColumn:          t.profile.LabelColumn,
		SkipPercentCompanion: t.profile.SkipPercentCompanion,
	})

	var diags []domain.Diagnostic
	for _, col := range h.Unparsed {
		diags = append(diags, t.diag(index, col, domain.ReasonUnparsedDate, section,
			fmt.Sprintf("cabeçalho %q da seção %s não é uma data", row.At(col).String(), section)))
	}

	minDates := t.profile.MinDates
	if minDates < 1 {
		minDates = 1
	}
	if len(h.Dates) < minDates {
		diags = append(diags, t.diag(index, 0, domain.ReasonSectionRejected, section,
			fmt.Sprintf("seção %s rejeitada: %d data(s) válida(s), mínimo %d", section, len(h.Dates), minDates)))
		return next, nil, diags
	}

	next.State = t.profile.SectionState
	next.Section = section
	next.Dates = h.Dates
	if t.profile.Summaries {
		next.TotalColumn = h.TotalColumn
		next.AverageColumn = h.AverageColumn
	}
	next.SectionsOpened++
	return next, nil, diags
}

func (t *Tracker) extract(ctx ParseContext, label string, row domain.Row, index int) (ParseContext, []Extracted, []domain.Diagnostic) {
	var (
		out   []Extracted
		diags []domain.Diagnostic
	)

	read := func(col int, date string, kind ValueKind) {
		cell := row.At(col)
		v, ok := locale.ParseNumber(cell, t.profile.Numbers)
		if !ok {
			if cell.Kind != domain.CellEmpty && !locale.IsNullMarker(cell.String()) {
				diags = append(diags, t.diag(index, col, domain.ReasonUnparsedValue, label,
					fmt.Sprintf("valor %q de %s não é numérico", cell.String(), label)))
			}
			return
		}
		out = append(out, Extracted{
			Row:     index,
			Column:  col,
			Section: ctx.Section,
			Label:   label,
			Date:    date,
			Value:   v,
			Kind:    kind,
		})
	}

	for _, col := range ctx.Dates.Columns() {
		read(col, ctx.Dates[col], ValueDaily)
	}
	if ctx.TotalColumn >= 0 {
		read(ctx.TotalColumn, "", ValueTotal)
	}
	if ctx.AverageColumn >= 0 {
		read(ctx.AverageColumn, "", ValueAverage)
	}

	if len(out) == 0 {
		diags = append(diags, t.diag(index, 0, domain.ReasonEmptyDataRow, label,
			fmt.Sprintf("%s não tem valores nas colunas de data", label)))
	}
	return ctx, out, diags
}

func (t *Tracker) diag(row, col int, reason domain.DiagnosticReason, label, msg string) domain.Diagnostic {
	return domain.Diagnostic{
		Sheet:   t.sheet,
		Row:     row,
		Column:  col,
		Reason:  reason,
		Label:   label,
		Message: fmt.Sprintf("aba %d, linha %d: %s", t.sheet+1, row+1, msg),
	}
}
