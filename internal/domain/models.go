// package domain/models.go
package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- Planilha ---

// CellKind identifica o tipo de valor de uma célula lida do arquivo.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellString
	CellDate
)

// Cell é um valor de célula: vazio, número, texto ou data nativa.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Time time.Time
}

// EmptyCell cria uma célula vazia.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// NumberCell cria uma célula numérica.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// TextCell cria uma célula de texto.
func TextCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// DateCell cria uma célula de data nativa.
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// IsEmpty indica célula nula ou texto só com espaços.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(strings.ReplaceAll(c.Str, "\u00a0", " ")) == ""
	}
	return false
}

// String devolve a representação textual da célula.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellString:
		return c.Str
	case CellDate:
		return c.Time.Format("2006-01-02")
	}
	return ""
}

// Row é uma linha da planilha; coluna 0 é a primeira coluna.
type Row []Cell

// At devolve a célula da coluna idx ou uma célula vazia fora dos limites.
func (r Row) At(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return EmptyCell()
	}
	return r[idx]
}

// IsBlank indica que todas as células da linha estão vazias.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Sheet é uma aba do arquivo materializada em memória; nunca é alterada pelo motor.
type Sheet struct {
	Name string
	Rows []Row
}

// --- Relatórios ---

// ReportType identifica o formato de relatório enviado.
type ReportType string

const (
	ReportProposals             ReportType = "propostas"
	ReportLogisticsConsolidated ReportType = "logistica-consolidado"
	ReportLogisticsDaily        ReportType = "logistica-diaria"
	ReportStock                 ReportType = "estoque"
)

// SourceFileType é a etiqueta gravada em cada registro.
type SourceFileType string

const (
	SourceProposals             SourceFileType = "PROPOSTAS_MENSAL"
	SourceLogisticsConsolidated SourceFileType = "LOGISTICA_CONSOLIDADO"
	SourceLogisticsDaily        SourceFileType = "LOGISTICA_DIARIA"
	SourceStock                 SourceFileType = "ESTOQUE"
)

// Tabelas de destino no backend relacional.
const (
	TableProposalMetrics          = "proposal_metrics"
	TableProposalMonthlySummaries = "proposal_monthly_summaries"
	TableLogisticsMetrics         = "logistics_metrics"
	TableLogisticsRegionalMetrics = "logistics_regional_metrics"
	TableLogisticsDailyMetrics    = "logistics_daily_metrics"
	TableStockMetrics             = "stock_metrics"
)

// MetricRecord é a unidade de saída do motor de ingestão.
//
// Dimension carrega categoria, região ou tipo de item conforme o relatório;
// SubDimension carrega subcategoria, UF ou tipo de métrica. Registros de resumo
// mensal usam ReferenceMonth no lugar de MetricDate e TotalValue/AverageValue no
// lugar de Value. Zero é um valor válido, por isso os valores são ponteiros.
type MetricRecord struct {
	MetricDate     string         `json:"metric_date,omitempty"`
	ReferenceMonth string         `json:"reference_month,omitempty"`
	Dimension      string         `json:"dimension"`
	SubDimension   string         `json:"sub_dimension"`
	MetricKey      string         `json:"metric_key,omitempty"`
	Value          *float64       `json:"value,omitempty"`
	TotalValue     *float64       `json:"total_value,omitempty"`
	AverageValue   *float64       `json:"average_value,omitempty"`
	SourceFileType SourceFileType `json:"source_file_type"`
	UploadedBy     string         `json:"uploaded_by"`
}

// DedupKey monta a chave composta usada para upsert e deduplicação.
func (r MetricRecord) DedupKey() string {
	date := r.MetricDate
	if date == "" {
		date = r.ReferenceMonth
	}
	parts := []string{date, r.Dimension, r.SubDimension}
	if r.MetricKey != "" {
		parts = append(parts, r.MetricKey)
	}
	return strings.Join(parts, "|")
}

// BatchKind identifica um lote gravado de forma independente.
type BatchKind string

const (
	BatchConsolidated   BatchKind = "consolidado"
	BatchRegional       BatchKind = "regional"
	BatchDaily          BatchKind = "diario"
	BatchMonthlySummary BatchKind = "resumo_mensal"
	BatchStock          BatchKind = "estoque"
)

// Batch é um conjunto de registros com a mesma tabela e a mesma chave de conflito.
type Batch struct {
	Kind            BatchKind      `json:"kind"`
	Table           string         `json:"table"`
	ConflictColumns []string       `json:"conflict_columns"`
	Records         []MetricRecord `json:"records"`
}

// --- Diagnósticos ---

// DiagnosticReason classifica por que uma linha ou célula não gerou registro.
type DiagnosticReason string

const (
	ReasonOrphanRow       DiagnosticReason = "linha_sem_secao"
	ReasonSectionRejected DiagnosticReason = "secao_sem_datas"
	ReasonTerminator      DiagnosticReason = "terminador"
	ReasonSkippedLabel    DiagnosticReason = "rotulo_ignorado"
	ReasonNonMetricLabel  DiagnosticReason = "rotulo_nao_metrico"
	ReasonBlankReset      DiagnosticReason = "linha_em_branco"
	ReasonBlankStop       DiagnosticReason = "fim_por_linha_em_branco"
	ReasonMissingLabel    DiagnosticReason = "linha_sem_rotulo"
	ReasonUnparsedDate    DiagnosticReason = "data_invalida"
	ReasonUnparsedValue   DiagnosticReason = "valor_invalido"
	ReasonEmptyDataRow    DiagnosticReason = "linha_sem_valores"
	ReasonDuplicateKey    DiagnosticReason = "chave_duplicada"
	ReasonMissingSheet    DiagnosticReason = "aba_ausente"
)

// Diagnostic descreve uma linha ou célula ignorada durante a leitura.
type Diagnostic struct {
	Sheet      int              `json:"sheet"`
	Row        int              `json:"row"`
	Column     int              `json:"column,omitempty"`
	Reason     DiagnosticReason `json:"reason"`
	Label      string           `json:"label,omitempty"`
	Message    string           `json:"message"`
	Suggestion string           `json:"suggestion,omitempty"`
}

// --- Usuário e resultado ---

// UserContext é a identidade opaca de quem enviou o arquivo.
type UserContext struct {
	UploadedBy string   `json:"uploaded_by"`
	Roles      []string `json:"roles"`
}

// HasRole indica se o usuário possui algum dos papéis informados.
func (u UserContext) HasRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// BatchSummary resume um lote processado.
type BatchSummary struct {
	Kind    BatchKind `json:"kind"`
	Table   string    `json:"table"`
	Records int       `json:"records"`
	Written bool      `json:"written"`
}

// IngestionResult é devolvido ao chamador após o processamento de um arquivo.
type IngestionResult struct {
	UploadID    uuid.UUID      `json:"upload_id"`
	ReportType  ReportType     `json:"report_type"`
	FileName    string         `json:"file_name"`
	DryRun      bool           `json:"dry_run"`
	Batches     []BatchSummary `json:"batches"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	Records     []MetricRecord `json:"records,omitempty"`
}

// TotalRecords soma os registros de todos os lotes.
func (r *IngestionResult) TotalRecords() int {
	total := 0
	for _, b := range r.Batches {
		total += b.Records
	}
	return total
}
