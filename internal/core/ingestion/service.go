package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ingestion-service/internal/core/workbook"
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchWriter é o colaborador de armazenamento: grava um lote com upsert pela
// chave de conflito declarada no próprio lote.
type BatchWriter interface {
	UpsertBatch(ctx context.Context, batch domain.Batch) error
}

// Request descreve um arquivo enviado para ingestão.
type Request struct {
	ReportType domain.ReportType
	FileName   string
	File       io.Reader
	User       domain.UserContext
	DryRun     bool
}

// Service define a interface do serviço de ingestão de planilhas.
type Service interface {
	Ingest(ctx context.Context, req Request) (*domain.IngestionResult, error)
}

type service struct {
	loader          *workbook.Loader
	writer          BatchWriter
	logger          *zap.Logger
	now             func() time.Time
	restrictedRoles []string
}

// Option ajusta o serviço na construção.
type Option func(*service)

// WithClock troca o relógio usado como data de referência.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithRestrictedRoles define os papéis que não podem enviar arquivos.
func WithRestrictedRoles(roles ...string) Option {
	return func(s *service) { s.restrictedRoles = roles }
}

// NewService cria uma nova instância do serviço de ingestão.
func NewService(loader *workbook.Loader, writer BatchWriter, logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{
		loader:          loader,
		writer:          writer,
		logger:          logger,
		now:             time.Now,
		restrictedRoles: []string{"guest"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Ingest(ctx context.Context, req Request) (*domain.IngestionResult, error) {
	if req.User.UploadedBy == "" {
		return nil, apperrors.Unauthorized("usuário não identificado: envio recusado")
	}
	if req.User.HasRole(s.restrictedRoles...) {
		return nil, apperrors.Forbidden("seu perfil não tem permissão para enviar arquivos")
	}
	if !Supported(req.ReportType) {
		return nil, apperrors.BadRequest(fmt.Sprintf("tipo de relatório desconhecido: %q", req.ReportType))
	}

	uploadID := uuid.New()
	log := s.logger.With(
		zap.String("upload_id", uploadID.String()),
		zap.String("report", string(req.ReportType)),
		zap.String("file", req.FileName),
		zap.String("uploaded_by", req.User.UploadedBy),
	)

	sheets, err := s.loader.Load(req.FileName, req.File)
	if err != nil {
		log.Warn("arquivo rejeitado", zap.Error(err))
		return nil, err
	}

	parsed, err := Parse(req.ReportType, sheets, ParseOptions{Now: s.now(), UploadedBy: req.User.UploadedBy})
	s.logDiagnostics(log, parsed.Diagnostics)
	if err != nil {
		log.Error("falha na leitura do arquivo", zap.Error(err), zap.Int("diagnostics", len(parsed.Diagnostics)))
		return nil, err
	}

	result := &domain.IngestionResult{
		UploadID:    uploadID,
		ReportType:  req.ReportType,
		FileName:    req.FileName,
		DryRun:      req.DryRun,
		Diagnostics: parsed.Diagnostics,
	}
	for _, b := range parsed.Batches {
		result.Batches = append(result.Batches, domain.BatchSummary{Kind: b.Kind, Table: b.Table, Records: len(b.Records)})
	}

	if req.DryRun {
		result.Records = parsed.Records()
		log.Info("leitura concluída (simulação)", zap.Int("records", result.TotalRecords()))
		return result, nil
	}

	if err := s.write(ctx, parsed.Batches, result); err != nil {
		log.Error("falha na gravação", zap.Error(err))
		return result, err
	}

	log.Info("ingestão concluída",
		zap.Int("records", result.TotalRecords()),
		zap.Int("batches", len(result.Batches)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	return result, nil
}

// write grava os lotes em paralelo. Lotes são independentes: a falha de um não
// desfaz o que outro já gravou, e cada erro identifica o lote de origem.
func (s *service) write(ctx context.Context, batches []domain.Batch, result *domain.IngestionResult) error {
	if s.writer == nil {
		return apperrors.Internal("nenhum destino de gravação configurado")
	}

	var g errgroup.Group
	errs := make([]error, len(batches))
	for i, b := range batches {
		g.Go(func() error {
			if err := s.writer.UpsertBatch(ctx, b); err != nil {
				errs[i] = fmt.Errorf("lote %s (%s, %d registros): %w", b.Kind, b.Table, len(b.Records), err)
				return errs[i]
			}
			result.Batches[i].Written = true
			return nil
		})
	}
	if g.Wait() == nil {
		return nil
	}

	failed := make([]string, 0, len(batches))
	for i, err := range errs {
		if err != nil {
			failed = append(failed, string(batches[i].Kind))
		}
	}
	return apperrors.WriteFailed(errors.Join(errs...)).WithDetails("failed_batches", failed)
}

func (s *service) logDiagnostics(log *zap.Logger, diags []domain.Diagnostic) {
	for _, d := range diags {
		log.Warn(d.Message,
			zap.String("reason", string(d.Reason)),
			zap.Int("sheet", d.Sheet),
			zap.Int("row", d.Row),
			zap.String("label", d.Label),
			zap.String("suggestion", d.Suggestion),
		)
	}
}
