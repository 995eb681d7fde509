package storage

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ingestion-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func value(v float64) *float64 { return &v }

func stockBatch(v float64) domain.Batch {
	return domain.Batch{
		Kind:            domain.BatchStock,
		Table:           domain.TableStockMetrics,
		ConflictColumns: []string{"metric_date", "item_type", "metric_type"},
		Records: []domain.MetricRecord{
			{MetricDate: "2024-05-01", Dimension: "CARTA", SubDimension: "SALDO", Value: value(v), SourceFileType: domain.SourceStock, UploadedBy: "ana"},
			{MetricDate: "2024-05-02", Dimension: "CARTA", SubDimension: "SALDO", Value: value(0), SourceFileType: domain.SourceStock, UploadedBy: "ana"},
		},
	}
}

func TestMetricsRepository_UpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMetricsRepository(db.DB, 1)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, stockBatch(10)))
	require.NoError(t, repo.UpsertBatch(ctx, stockBatch(10)))

	var count int64
	require.NoError(t, db.DB.Model(&StockMetric{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMetricsRepository_LastWriteWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewMetricsRepository(db.DB, 0)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, stockBatch(10)))
	require.NoError(t, repo.UpsertBatch(ctx, stockBatch(25)))

	var rows []StockMetric
	require.NoError(t, db.DB.Order("metric_date").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 25.0, rows[0].Value)
	assert.Equal(t, 0.0, rows[1].Value)
	assert.Equal(t, "2024-05-01", rows[0].MetricDate.Format("2006-01-02"))
}

func TestMetricsRepository_MonthlySummary(t *testing.T) {
	db := newTestDB(t)
	repo := NewMetricsRepository(db.DB, 0)

	batch := domain.Batch{
		Kind:            domain.BatchMonthlySummary,
		Table:           domain.TableProposalMonthlySummaries,
		ConflictColumns: []string{"reference_month", "category", "sub_category"},
		Records: []domain.MetricRecord{
			{ReferenceMonth: "2024-05-01", Dimension: "DIGITADAS", SubDimension: "CARTAO", TotalValue: value(30), SourceFileType: domain.SourceProposals, UploadedBy: "ana"},
		},
	}
	require.NoError(t, repo.UpsertBatch(context.Background(), batch))

	var row ProposalMonthlySummary
	require.NoError(t, db.DB.First(&row).Error)
	require.NotNil(t, row.TotalValue)
	assert.Equal(t, 30.0, *row.TotalValue)
	assert.Nil(t, row.AverageValue)
}

func TestMetricsRepository_RejectsUnknownTable(t *testing.T) {
	db := newTestDB(t)
	err := NewMetricsRepository(db.DB, 0).UpsertBatch(context.Background(), domain.Batch{
		Table:   "nao_existe",
		Records: []domain.MetricRecord{{MetricDate: "2024-05-01"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nao_existe")
}

func TestMemoryStore_SameSemantics(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, stockBatch(10)))
	require.NoError(t, store.UpsertBatch(ctx, stockBatch(25)))

	rows := store.Records(domain.TableStockMetrics)
	require.Len(t, rows, 2)
	assert.Equal(t, 25.0, *rows[0].Value)
	assert.Equal(t, 2, store.Writes())
}
