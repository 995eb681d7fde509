package ingestion

import (
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"
)

// parseStock lê o relatório de estoque: blocos por tipo de item, cada um com
// as próprias datas na linha de abertura.
func parseStock(sheets []domain.Sheet, opts ParseOptions) (ParseResult, error) {
	stock := newBatch(domain.BatchStock, domain.TableStockMetrics,
		[]string{"metric_date", "item_type", "metric_type"}, false)

	ctx, values, diags := walkSheet(sheets[0], 0, stockProfile(), opts.Now)
	if ctx.SectionsOpened == 0 {
		return ParseResult{Diagnostics: diags}, apperrors.StructureNotFound(
			"nenhum bloco de item com datas válidas encontrado: esperado CARTÃO, CARTÃO PLÁSTICO, CARTA, ENVELOPE, ENCARTE ou BOBINA seguido das datas")
	}

	for _, v := range values {
		stock.add(dailyRecord(v, v.Section, v.Label), 0, v.Row)
	}

	batches, dups := collect(stock)
	return ParseResult{Batches: batches, Diagnostics: append(diags, dups...)}, nil
}
