package ingestion

import (
	"ingestion-service/internal/core/locale"
	"ingestion-service/internal/core/sheet"
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"
)

// parseProposals lê o relatório mensal de propostas: um cabeçalho global com
// as datas do mês e colunas TOTAL/MÉDIA, seguido de blocos por categoria.
func parseProposals(sheets []domain.Sheet, opts ParseOptions) (ParseResult, error) {
	s := sheets[0]

	header, ok := sheet.LocateFixedHeader(s, opts.Now, sheet.HeaderOptions{})
	if !ok {
		return ParseResult{}, apperrors.StructureNotFound(
			"cabeçalho de datas não encontrado nas 10 primeiras linhas: são necessárias ao menos duas datas e uma coluna TOTAL ou MÉDIA")
	}

	tracker := sheet.NewTracker(proposalProfile(), 0, opts.Now).WithFixedHeader(header.SectionHeader)
	ctx, values, diags := tracker.Walk(s, sheet.NewContext(header.FileYear), header.RowIndex+1)
	if ctx.SectionsOpened == 0 {
		return ParseResult{Diagnostics: diags}, apperrors.StructureNotFound(
			"nenhuma categoria (DIGITADAS, APROVADAS, REPROVADAS, PENDENTES, CANCELADAS, INTEGRADAS, CONTAS ATIVAS) encontrada abaixo do cabeçalho")
	}

	referenceMonth := locale.MonthStart(earliestDate(header.Dates))

	daily := newBatch(domain.BatchDaily, domain.TableProposalMetrics,
		[]string{"metric_date", "category", "sub_category"}, false)
	summary := newBatch(domain.BatchMonthlySummary, domain.TableProposalMonthlySummaries,
		[]string{"reference_month", "category", "sub_category"}, false)

	// TOTAL e MÉDIA de uma mesma linha formam um único registro de resumo
	var (
		pending    *domain.MetricRecord
		pendingRow = -1
	)
	flush := func() {
		if pending != nil {
			summary.add(*pending, 0, pendingRow)
			pending = nil
		}
	}

	for _, v := range values {
		if v.Kind == sheet.ValueDaily {
			daily.add(dailyRecord(v, v.Section, v.Label), 0, v.Row)
			continue
		}
		if pending == nil || pendingRow != v.Row {
			flush()
			pending = &domain.MetricRecord{
				ReferenceMonth: referenceMonth,
				Dimension:      v.Section,
				SubDimension:   v.Label,
			}
			pendingRow = v.Row
		}
		value := v.Value
		if v.Kind == sheet.ValueTotal {
			pending.TotalValue = &value
		} else {
			pending.AverageValue = &value
		}
	}
	flush()

	batches, dups := collect(daily, summary)
	return ParseResult{Batches: batches, Diagnostics: append(diags, dups...)}, nil
}

// earliestDate devolve a menor data do mapa (datas ISO comparam como texto).
func earliestDate(dates sheet.DateColumnMap) string {
	earliest := ""
	for _, d := range dates {
		if earliest == "" || d < earliest {
			earliest = d
		}
	}
	return earliest
}
