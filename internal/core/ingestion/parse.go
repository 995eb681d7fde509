package ingestion

import (
	"fmt"
	"time"

	"ingestion-service/internal/core/sheet"
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"
)

// ParseOptions carrega o contexto externo de uma leitura.
type ParseOptions struct {
	// Now é a data de referência usada para resolver anos ausentes nos cabeçalhos.
	Now        time.Time
	UploadedBy string
}

// ParseResult é a saída pura da leitura de um arquivo: lotes prontos para
// gravação e a lista de linhas/células descartadas.
type ParseResult struct {
	Batches     []domain.Batch
	Diagnostics []domain.Diagnostic
}

// TotalRecords soma os registros de todos os lotes.
func (r ParseResult) TotalRecords() int {
	total := 0
	for _, b := range r.Batches {
		total += len(b.Records)
	}
	return total
}

// Records devolve todos os registros, lote a lote.
func (r ParseResult) Records() []domain.MetricRecord {
	out := make([]domain.MetricRecord, 0, r.TotalRecords())
	for _, b := range r.Batches {
		out = append(out, b.Records...)
	}
	return out
}

type parser func(sheets []domain.Sheet, opts ParseOptions) (ParseResult, error)

type reportDef struct {
	source domain.SourceFileType
	parse  parser
}

var reports = map[domain.ReportType]reportDef{
	domain.ReportProposals:             {source: domain.SourceProposals, parse: parseProposals},
	domain.ReportLogisticsConsolidated: {source: domain.SourceLogisticsConsolidated, parse: parseLogisticsConsolidated},
	domain.ReportLogisticsDaily:        {source: domain.SourceLogisticsDaily, parse: parseLogisticsDaily},
	domain.ReportStock:                 {source: domain.SourceStock, parse: parseStock},
}

// Supported indica se o tipo de relatório tem um leitor registrado.
func Supported(report domain.ReportType) bool {
	_, ok := reports[report]
	return ok
}

// Parse transforma as abas de um arquivo nos lotes de registros do relatório.
// Falhas de estrutura abortam a leitura inteira; um arquivo lido sem erro de
// estrutura mas sem nenhum registro também é rejeitado.
func Parse(report domain.ReportType, sheets []domain.Sheet, opts ParseOptions) (ParseResult, error) {
	def, ok := reports[report]
	if !ok {
		return ParseResult{}, apperrors.BadRequest(fmt.Sprintf("tipo de relatório desconhecido: %q", report))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if len(sheets) == 0 {
		return ParseResult{}, apperrors.StructureNotFound("o arquivo não contém abas")
	}

	res, err := def.parse(sheets, opts)
	if err != nil {
		return res, err
	}

	for i := range res.Batches {
		for j := range res.Batches[i].Records {
			res.Batches[i].Records[j].SourceFileType = def.source
			res.Batches[i].Records[j].UploadedBy = opts.UploadedBy
		}
	}

	if res.TotalRecords() == 0 {
		return res, apperrors.NoValidData("nenhum dado válido foi extraído do arquivo: as seções foram encontradas, mas nenhuma célula trouxe valor numérico").
			WithDetails("diagnostics", len(res.Diagnostics))
	}
	return res, nil
}

// walkSheet percorre uma aba inteira com o perfil informado.
func walkSheet(s domain.Sheet, index int, p sheet.Profile, now time.Time) (sheet.ParseContext, []sheet.Extracted, []domain.Diagnostic) {
	fileYear := sheet.InferSheetYear(s, now)
	return sheet.NewTracker(p, index, now).Walk(s, sheet.NewContext(fileYear), 0)
}

// ---------------------- lotes ----------------------

// batchBuilder acumula registros de um lote colapsando chaves repetidas.
// Com keepFirst a primeira ocorrência vence; sem ele vence a última, como
// faria uma sequência de upserts.
type batchBuilder struct {
	batch     domain.Batch
	index     map[string]int
	rows      map[string]int
	keepFirst bool
	diags     []domain.Diagnostic
}

func newBatch(kind domain.BatchKind, table string, conflict []string, keepFirst bool) *batchBuilder {
	return &batchBuilder{
		batch:     domain.Batch{Kind: kind, Table: table, ConflictColumns: conflict},
		index:     make(map[string]int),
		rows:      make(map[string]int),
		keepFirst: keepFirst,
	}
}

func (b *batchBuilder) add(rec domain.MetricRecord, sheetIndex, row int) {
	key := rec.DedupKey()
	pos, dup := b.index[key]
	if !dup {
		b.index[key] = len(b.batch.Records)
		b.rows[key] = row
		b.batch.Records = append(b.batch.Records, rec)
		return
	}

	kept := "a última"
	if b.keepFirst {
		kept = "a primeira"
	} else {
		b.batch.Records[pos] = rec
	}
	b.diags = append(b.diags, domain.Diagnostic{
		Sheet:  sheetIndex,
		Row:    row,
		Reason: domain.ReasonDuplicateKey,
		Label:  rec.SubDimension,
		Message: fmt.Sprintf("aba %d, linha %d: chave %s repetida (primeira na linha %d), mantida %s ocorrência",
			sheetIndex+1, row+1, key, b.rows[key]+1, kept),
	})
	if !b.keepFirst {
		b.rows[key] = row
	}
}

// collect devolve apenas os lotes não vazios e os diagnósticos de duplicidade.
func collect(builders ...*batchBuilder) ([]domain.Batch, []domain.Diagnostic) {
	var (
		batches []domain.Batch
		diags   []domain.Diagnostic
	)
	for _, b := range builders {
		diags = append(diags, b.diags...)
		if len(b.batch.Records) > 0 {
			batches = append(batches, b.batch)
		}
	}
	return batches, diags
}

func dailyRecord(v sheet.Extracted, dimension, subDimension string) domain.MetricRecord {
	value := v.Value
	return domain.MetricRecord{
		MetricDate:   v.Date,
		Dimension:    dimension,
		SubDimension: subDimension,
		Value:        &value,
	}
}

func missingSheet(index int, what string) domain.Diagnostic {
	return domain.Diagnostic{
		Sheet:   index,
		Row:     -1,
		Reason:  domain.ReasonMissingSheet,
		Message: fmt.Sprintf("aba %d ausente: %s não foi lida", index+1, what),
	}
}
