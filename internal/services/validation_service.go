package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"skucheck/internal/config"
	"skucheck/internal/dataprocessing"
	"skucheck/internal/dataset"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/infrastructure"
	"skucheck/internal/quantity"
	"skucheck/internal/validation"
	ws "skucheck/internal/websocket"
	"skucheck/pkg/contracts/domain"
	"skucheck/pkg/contracts/events"
)

// fingerprintSize is the number of blake2b bytes kept in a fingerprint
const fingerprintSize = 16

// Source is one input table, given either as a file path or as in-memory
// content with a file name whose extension selects the reader
type Source struct {
	Name string `validate:"required_without=Path"`
	Path string `validate:"required_without=Data"`
	Data []byte `validate:"required_without=Path"`
}

// DisplayName returns the name used in logs, events and export file names
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

// RunRequest describes one validation run
type RunRequest struct {
	Primary Source
	Aux     *Source `validate:"omitempty"`
	// AuxColumns limits the auxiliary columns appended by the join
	AuxColumns []string `validate:"omitempty,max=50,dive,required"`
	// JoinKey overrides the configured join key aliases for both tables
	JoinKey string `validate:"omitempty,max=200"`
}

// RunResult is the outcome of a successful run
type RunResult struct {
	RunID       string             `json:"run_id"`
	Fingerprint string             `json:"fingerprint"`
	Source      string             `json:"source"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration"`
	InputRows   int                `json:"input_rows"`
	Join        *dataset.JoinStats `json:"join,omitempty"`
	*dataprocessing.TableResult
}

// ValidationService runs catalog validations
type ValidationService struct {
	aliases   config.ColumnAliases
	parser    *quantity.Parser
	annotator *dataprocessing.Annotator
	files     *validation.FileValidator
	validate  *validator.Validate
	publisher ws.Publisher
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewValidationService creates a validation service. publisher, metrics and
// tracer are optional.
func NewValidationService(aliases config.ColumnAliases, publisher ws.Publisher, metrics *infrastructure.BusinessMetrics, tracer trace.Tracer, logger *slog.Logger) *ValidationService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName + "/services")
	}
	logger = logger.With(slog.String("component", "validation_service"))

	parser := quantity.New()
	return &ValidationService{
		aliases:   aliases,
		parser:    parser,
		annotator: dataprocessing.NewAnnotator(parser),
		files:     validation.NewFileValidator(logger),
		validate:  validator.New(),
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// Parse extracts the packaged quantity of each description
func (s *ValidationService) Parse(descriptions []string) []domain.ExtractedQuantity {
	out := make([]domain.ExtractedQuantity, len(descriptions))
	for i, d := range descriptions {
		out[i] = s.parser.Parse(d)
	}
	return out
}

// Run executes one validation run
func (s *ValidationService) Run(ctx context.Context, req RunRequest) (res *RunResult, err error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apierrors.NewAppError(apierrors.ErrTypeValidation, "invalid run request", err)
	}

	runID := uuid.NewString()
	started := time.Now()
	source := req.Primary.DisplayName()

	ctx = infrastructure.WithRunID(ctx, runID)
	ctx, span := s.tracer.Start(ctx, "validation.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.source", source),
		attribute.Bool("run.has_aux", req.Aux != nil),
	))
	defer span.End()

	s.logger.InfoContext(ctx, "Validation run started", slog.String("source", source))
	s.publish(ctx, events.MessageTypeRunStarted, events.RunEvent{
		RunID:  runID,
		Source: source,
		Status: events.RunStatusRunning,
	})

	var (
		fingerprint string
		inputBytes  int64
	)
	defer func() {
		elapsed := time.Since(started)
		run := infrastructure.RunMetrics{
			Source:   source,
			Duration: elapsed,
			Bytes:    inputBytes,
			Err:      err,
		}
		if res != nil {
			run.Rows = res.Summary.TotalRecords
			run.ContentProblems = res.Summary.ContentProblems
			run.QuartileFlags = res.Summary.OutlierQuartileOnly + res.Summary.OutlierBoth
			run.MedianFlags = res.Summary.OutlierMedianOnly + res.Summary.OutlierBoth
			run.RecordsAtRisk = res.Summary.RecordsAtRisk
		}
		infrastructure.RecordRunMetrics(ctx, s.metrics, run)

		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.logger.ErrorContext(ctx, "Validation run failed",
				slog.String("source", source),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()))
			s.publish(ctx, events.MessageTypeRunFailed, events.RunEvent{
				RunID:       runID,
				Source:      source,
				Fingerprint: fingerprint,
				Status:      events.RunStatusFailed,
				DurationMS:  elapsed.Milliseconds(),
				Error:       err.Error(),
			})
			return
		}

		span.SetAttributes(
			attribute.Int("run.rows", run.Rows),
			attribute.Int("run.records_at_risk", run.RecordsAtRisk),
		)
		s.logger.InfoContext(ctx, "Validation run completed",
			slog.String("source", source),
			slog.String("fingerprint", fingerprint),
			slog.Int("rows", run.Rows),
			slog.Int("records_at_risk", run.RecordsAtRisk),
			slog.Duration("duration", elapsed))
		s.publish(ctx, events.MessageTypeRunCompleted, events.RunEvent{
			RunID:         runID,
			Source:        source,
			Fingerprint:   fingerprint,
			Status:        events.RunStatusCompleted,
			Rows:          run.Rows,
			RecordsAtRisk: run.RecordsAtRisk,
			RiskPercent:   res.Summary.RiskPercent,
			DurationMS:    elapsed.Milliseconds(),
		})
	}()

	var primary, aux *dataset.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.load(gctx, req.Primary)
		if err != nil {
			return err
		}
		inputBytes = int64(len(data))
		fingerprint = Fingerprint(data)
		primary, err = dataset.Read(bytes.NewReader(data), req.Primary.DisplayName())
		if err != nil {
			return apierrors.NewParsingError("failed to read "+req.Primary.DisplayName(), err)
		}
		return nil
	})
	if req.Aux != nil {
		g.Go(func() error {
			data, err := s.load(gctx, *req.Aux)
			if err != nil {
				return err
			}
			aux, err = dataset.Read(bytes.NewReader(data), req.Aux.DisplayName())
			if err != nil {
				return apierrors.NewParsingError("failed to read auxiliary "+req.Aux.DisplayName(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := primary
	var joinStats *dataset.JoinStats
	if aux != nil {
		joined, stats, err := s.join(primary, aux, req)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Auxiliary table joined",
			slog.Int("matched", stats.Matched),
			slog.Int("unmatched", stats.Unmatched),
			slog.Int("duplicate_keys", stats.DuplicateKeys))
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"join.matched":        stats.Matched,
			"join.unmatched":      stats.Unmatched,
			"join.duplicate_keys": stats.DuplicateKeys,
		})
		table, joinStats = joined, &stats
	}

	cols, err := dataset.Resolve(table.Headers, s.aliases)
	if err != nil {
		return nil, err
	}

	filtered := dataset.FilterPositiveSales(table, cols.SalesVolume)
	if dropped := table.Len() - filtered.Len(); dropped > 0 {
		s.logger.InfoContext(ctx, "Rows without positive sales skipped", slog.Int("rows", dropped))
	}

	tr, err := s.annotator.AnnotateTable(filtered, cols)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:       runID,
		Fingerprint: fingerprint,
		Source:      source,
		StartedAt:   started,
		Duration:    time.Since(started),
		InputRows:   table.Len(),
		Join:        joinStats,
		TableResult: tr,
	}, nil
}

// load returns the raw bytes of src
func (s *ValidationService) load(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Data != nil {
		return src.Data, nil
	}
	if err := s.files.ValidateCatalogFile(src.Path); err != nil {
		return nil, apierrors.NewAppError(apierrors.ErrTypeNotFound, err.Error(), err)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to read input", err)
	}
	return data, nil
}

// join appends auxiliary columns keyed on the configured join key
func (s *ValidationService) join(primary, aux *dataset.Table, req RunRequest) (*dataset.Table, dataset.JoinStats, error) {
	keys := s.aliases.JoinKey
	if req.JoinKey != "" {
		keys = []string{req.JoinKey}
	}

	pk, ok := dataset.FindColumn(primary.Headers, keys)
	if !ok {
		return nil, dataset.JoinStats{}, apierrors.NewAppValidationError(
			fmt.Sprintf("join key not found in %s (tried %v)", primary.Name, keys))
	}
	ak, ok := dataset.FindColumn(aux.Headers, keys)
	if !ok {
		return nil, dataset.JoinStats{}, apierrors.NewAppValidationError(
			fmt.Sprintf("join key not found in %s (tried %v)", aux.Name, keys))
	}

	joined, stats, err := dataset.LeftJoin(primary, aux, dataset.JoinOptions{
		PrimaryKey: pk,
		AuxKey:     ak,
		Columns:    req.AuxColumns,
	})
	if err != nil {
		return nil, stats, apierrors.NewAppError(apierrors.ErrTypeValidation, err.Error(), err)
	}
	return joined, stats, nil
}

func (s *ValidationService) publish(ctx context.Context, t events.MessageType, ev events.RunEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishRun(ctx, t, ev)
}

// Fingerprint identifies input content: the hex form of the first 16 bytes
// of its blake2b-256 digest
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:fingerprintSize])
}
