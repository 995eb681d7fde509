package storage

import (
	"context"
	"fmt"
	"time"

	"ingestion-service/internal/core/locale"
	"ingestion-service/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 500

// MetricsRepository grava lotes de métricas com upsert pela chave de conflito.
type MetricsRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewMetricsRepository cria o repositório; batchSize <= 0 usa o padrão.
func NewMetricsRepository(db *gorm.DB, batchSize int) *MetricsRepository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &MetricsRepository{db: db, batchSize: batchSize}
}

// UpsertBatch converte os registros para o modelo da tabela do lote e grava.
func (r *MetricsRepository) UpsertBatch(ctx context.Context, batch domain.Batch) error {
	if len(batch.Records) == 0 {
		return nil
	}
	switch batch.Table {
	case domain.TableProposalMetrics:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, date time.Time) ProposalMetric {
			return ProposalMetric{MetricDate: date, Category: rec.Dimension, SubCategory: rec.SubDimension,
				Value: deref(rec.Value), SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	case domain.TableProposalMonthlySummaries:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, month time.Time) ProposalMonthlySummary {
			return ProposalMonthlySummary{ReferenceMonth: month, Category: rec.Dimension, SubCategory: rec.SubDimension,
				TotalValue: rec.TotalValue, AverageValue: rec.AverageValue,
				SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	case domain.TableLogisticsMetrics:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, date time.Time) LogisticsMetric {
			return LogisticsMetric{MetricDate: date, Category: rec.Dimension, SubCategory: rec.SubDimension,
				Value: deref(rec.Value), SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	case domain.TableLogisticsRegionalMetrics:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, date time.Time) LogisticsRegionalMetric {
			return LogisticsRegionalMetric{MetricDate: date, Region: rec.Dimension, State: rec.SubDimension,
				Value: deref(rec.Value), SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	case domain.TableLogisticsDailyMetrics:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, date time.Time) LogisticsDailyMetric {
			return LogisticsDailyMetric{MetricDate: date, Category: rec.Dimension, SubCategory: rec.SubDimension,
				MetricKey: rec.MetricKey, Value: deref(rec.Value),
				SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	case domain.TableStockMetrics:
		return upsert(ctx, r, batch, func(rec domain.MetricRecord, date time.Time) StockMetric {
			return StockMetric{MetricDate: date, ItemType: rec.Dimension, MetricType: rec.SubDimension,
				Value: deref(rec.Value), SourceFileType: string(rec.SourceFileType), UploadedBy: rec.UploadedBy}
		})
	}
	return fmt.Errorf("tabela desconhecida: %s", batch.Table)
}

func upsert[T any](ctx context.Context, r *MetricsRepository, batch domain.Batch, convert func(domain.MetricRecord, time.Time) T) error {
	rows := make([]T, 0, len(batch.Records))
	for _, rec := range batch.Records {
		raw := rec.MetricDate
		if raw == "" {
			raw = rec.ReferenceMonth
		}
		date, err := time.Parse(locale.ISODate, raw)
		if err != nil {
			return fmt.Errorf("data inválida %q no registro %s: %w", raw, rec.DedupKey(), err)
		}
		rows = append(rows, convert(rec, date))
	}

	columns := make([]clause.Column, 0, len(batch.ConflictColumns))
	for _, name := range batch.ConflictColumns {
		columns = append(columns, clause.Column{Name: name})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: columns, UpdateAll: true}).
		CreateInBatches(&rows, r.batchSize).Error
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
