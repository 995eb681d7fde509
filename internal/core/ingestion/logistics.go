package ingestion

import (
	"strings"

	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"
)

// Chaves de métrica do relatório diário de logística.
const (
	MetricKeyQuantity   = "QUANTIDADE"
	MetricKeyPercentage = "PERCENTUAL"
)

// parseLogisticsConsolidated lê a visão por categoria (aba 1) e a visão por
// região/UF (aba 2). A falta da aba regional só reduz o número de registros.
func parseLogisticsConsolidated(sheets []domain.Sheet, opts ParseOptions) (ParseResult, error) {
	consolidated := newBatch(domain.BatchConsolidated, domain.TableLogisticsMetrics,
		[]string{"metric_date", "category", "sub_category"}, false)
	regional := newBatch(domain.BatchRegional, domain.TableLogisticsRegionalMetrics,
		[]string{"metric_date", "region", "state"}, false)

	ctx, values, diags := walkSheet(sheets[0], 0, logisticsCategoryProfile(), opts.Now)
	opened := ctx.SectionsOpened
	for _, v := range values {
		consolidated.add(dailyRecord(v, v.Section, v.Label), 0, v.Row)
	}

	if len(sheets) < 2 {
		diags = append(diags, missingSheet(1, "a visão por região"))
	} else {
		ctx, values, regionDiags := walkSheet(sheets[1], 1, logisticsRegionProfile(), opts.Now)
		opened += ctx.SectionsOpened
		diags = append(diags, regionDiags...)
		for _, v := range values {
			regional.add(dailyRecord(v, v.Section, v.Label), 1, v.Row)
		}
	}

	if opened == 0 {
		return ParseResult{Diagnostics: diags}, apperrors.StructureNotFound(
			"nenhum bloco com datas válidas encontrado: esperado um rótulo de categoria (ENTREGAS, COLETAS, DEVOLUÇÕES, INSUCESSOS, EM ROTA, AGENDADAS) ou de região seguido das datas")
	}

	batches, dups := collect(consolidated, regional)
	return ParseResult{Batches: batches, Diagnostics: append(diags, dups...)}, nil
}

// parseLogisticsDaily lê o relatório diário. Rótulos com "%" são percentuais
// do mesmo indicador; a primeira ocorrência de cada chave vence.
func parseLogisticsDaily(sheets []domain.Sheet, opts ParseOptions) (ParseResult, error) {
	daily := newBatch(domain.BatchDaily, domain.TableLogisticsDailyMetrics,
		[]string{"metric_date", "category", "sub_category", "metric_key"}, true)

	ctx, values, diags := walkSheet(sheets[0], 0, logisticsDailyProfile(), opts.Now)
	if ctx.SectionsOpened == 0 {
		return ParseResult{Diagnostics: diags}, apperrors.StructureNotFound(
			"nenhum bloco com datas válidas encontrado: esperado ENTREGAS, COLETAS, DEVOLUÇÕES, INSUCESSOS ou DIGITADAS seguido das datas")
	}

	for _, v := range values {
		subCategory, metricKey := splitMetricKey(v.Label)
		rec := dailyRecord(v, v.Section, subCategory)
		rec.MetricKey = metricKey
		daily.add(rec, 0, v.Row)
	}

	batches, dups := collect(daily)
	return ParseResult{Batches: batches, Diagnostics: append(diags, dups...)}, nil
}

// splitMetricKey separa o marcador "%" do rótulo.
func splitMetricKey(label string) (string, string) {
	if !strings.Contains(label, "%") {
		return label, MetricKeyQuantity
	}
	clean := strings.Join(strings.Fields(strings.ReplaceAll(label, "%", " ")), " ")
	return clean, MetricKeyPercentage
}
