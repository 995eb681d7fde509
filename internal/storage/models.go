package storage

import (
	"time"

	"ingestion-service/internal/domain"
)

// Cada modelo tem um índice único igual à chave de conflito do lote que o grava.

type ProposalMetric struct {
	ID             uint      `gorm:"primaryKey"`
	MetricDate     time.Time `gorm:"type:date;not null;uniqueIndex:ux_proposal_metrics_key,priority:1"`
	Category       string    `gorm:"size:100;not null;uniqueIndex:ux_proposal_metrics_key,priority:2"`
	SubCategory    string    `gorm:"size:200;not null;uniqueIndex:ux_proposal_metrics_key,priority:3"`
	Value          float64   `gorm:"not null"`
	SourceFileType string    `gorm:"size:40;not null"`
	UploadedBy     string    `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProposalMetric) TableName() string { return domain.TableProposalMetrics }

type ProposalMonthlySummary struct {
	ID             uint      `gorm:"primaryKey"`
	ReferenceMonth time.Time `gorm:"type:date;not null;uniqueIndex:ux_proposal_monthly_summaries_key,priority:1"`
	Category       string    `gorm:"size:100;not null;uniqueIndex:ux_proposal_monthly_summaries_key,priority:2"`
	SubCategory    string    `gorm:"size:200;not null;uniqueIndex:ux_proposal_monthly_summaries_key,priority:3"`
	TotalValue     *float64
	AverageValue   *float64
	SourceFileType string `gorm:"size:40;not null"`
	UploadedBy     string `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProposalMonthlySummary) TableName() string { return domain.TableProposalMonthlySummaries }

type LogisticsMetric struct {
	ID             uint      `gorm:"primaryKey"`
	MetricDate     time.Time `gorm:"type:date;not null;uniqueIndex:ux_logistics_metrics_key,priority:1"`
	Category       string    `gorm:"size:100;not null;uniqueIndex:ux_logistics_metrics_key,priority:2"`
	SubCategory    string    `gorm:"size:200;not null;uniqueIndex:ux_logistics_metrics_key,priority:3"`
	Value          float64   `gorm:"not null"`
	SourceFileType string    `gorm:"size:40;not null"`
	UploadedBy     string    `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LogisticsMetric) TableName() string { return domain.TableLogisticsMetrics }

type LogisticsRegionalMetric struct {
	ID             uint      `gorm:"primaryKey"`
	MetricDate     time.Time `gorm:"type:date;not null;uniqueIndex:ux_logistics_regional_metrics_key,priority:1"`
	Region         string    `gorm:"size:40;not null;uniqueIndex:ux_logistics_regional_metrics_key,priority:2"`
	State          string    `gorm:"size:200;not null;uniqueIndex:ux_logistics_regional_metrics_key,priority:3"`
	Value          float64   `gorm:"not null"`
	SourceFileType string    `gorm:"size:40;not null"`
	UploadedBy     string    `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LogisticsRegionalMetric) TableName() string { return domain.TableLogisticsRegionalMetrics }

type LogisticsDailyMetric struct {
	ID             uint      `gorm:"primaryKey"`
	MetricDate     time.Time `gorm:"type:date;not null;uniqueIndex:ux_logistics_daily_metrics_key,priority:1"`
	Category       string    `gorm:"size:100;not null;uniqueIndex:ux_logistics_daily_metrics_key,priority:2"`
	SubCategory    string    `gorm:"size:200;not null;uniqueIndex:ux_logistics_daily_metrics_key,priority:3"`
	MetricKey      string    `gorm:"size:20;not null;uniqueIndex:ux_logistics_daily_metrics_key,priority:4"`
	Value          float64   `gorm:"not null"`
	SourceFileType string    `gorm:"size:40;not null"`
	UploadedBy     string    `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LogisticsDailyMetric) TableName() string { return domain.TableLogisticsDailyMetrics }

type StockMetric struct {
	ID             uint      `gorm:"primaryKey"`
	MetricDate     time.Time `gorm:"type:date;not null;uniqueIndex:ux_stock_metrics_key,priority:1"`
	ItemType       string    `gorm:"size:40;not null;uniqueIndex:ux_stock_metrics_key,priority:2"`
	MetricType     string    `gorm:"size:200;not null;uniqueIndex:ux_stock_metrics_key,priority:3"`
	Value          float64   `gorm:"not null"`
	SourceFileType string    `gorm:"size:40;not null"`
	UploadedBy     string    `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (StockMetric) TableName() string { return domain.TableStockMetrics }

// AllModels lista os modelos migrados na inicialização.
func AllModels() []interface{} {
	return []interface{}{
		&ProposalMetric{},
		&ProposalMonthlySummary{},
		&LogisticsMetric{},
		&LogisticsRegionalMetric{},
		&LogisticsDailyMetric{},
		&StockMetric{},
	}
}
