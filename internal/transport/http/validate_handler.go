package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"skucheck/internal/config"
	"skucheck/internal/dataset"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/exporter"
	"skucheck/internal/middleware"
	"skucheck/internal/services"
	"skucheck/internal/validation"
	api "skucheck/pkg/contracts/api/v1"
)

// multipartMemory is the part of an upload kept in memory before spilling
// to temporary files
const multipartMemory = 8 << 20

// RunIDHeader carries the run ID on export downloads
const RunIDHeader = "X-Run-ID"

// ValidateResponse is the JSON body of POST /api/validate
type ValidateResponse struct {
	RunID       string             `json:"run_id"`
	Fingerprint string             `json:"fingerprint"`
	Source      string             `json:"source"`
	DurationMS  int64              `json:"duration_ms"`
	InputRows   int                `json:"input_rows"`
	Join        *dataset.JoinStats `json:"join,omitempty"`
	exporter.Report
}

// ValidateHandler serves catalog validation and quantity parsing
type ValidateHandler struct {
	service       ValidationService
	defaultFormat exporter.Format
	validate      *validator.Validate
	errorHandler  *apierrors.ErrorHandler
	logger        *slog.Logger
}

// NewValidateHandler creates a validate handler. defaultFormat applies when
// the request has no format query parameter.
func NewValidateHandler(service ValidationService, defaultFormat exporter.Format, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ValidateHandler {
	if defaultFormat == "" {
		defaultFormat = exporter.FormatJSON
	}
	return &ValidateHandler{
		service:       service,
		defaultFormat: defaultFormat,
		validate:      middleware.NewValidator(),
		errorHandler:  errorHandler,
		logger:        logger.With(slog.String("component", "validate_handler")),
	}
}

// RegisterRoutes adds the handler's routes to r
func (h *ValidateHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.ContentTypeValidator(h.logger, "multipart/form-data")).
		Post("/validate", h.Validate)
	r.With(middleware.ContentTypeValidator(h.logger, "application/json")).
		Post("/parse", h.Parse)
}

// Validate handles POST /api/validate
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, formError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := api.ValidateRequest{
		Format:     r.URL.Query().Get("format"),
		AuxColumns: splitList(r.FormValue("aux_columns")),
		JoinKey:    strings.TrimSpace(r.FormValue("join_key")),
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FromValidator(err))
		return
	}

	format := h.defaultFormat
	if req.Format != "" {
		f, err := exporter.ParseFormat(req.Format)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		format = f
	}

	primary, err := readUpload(r, "file", true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	aux, err := readUpload(r, "aux", false)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.service.Run(ctx, services.RunRequest{
		Primary:    *primary,
		Aux:        aux,
		AuxColumns: req.AuxColumns,
		JoinKey:    req.JoinKey,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set(RunIDHeader, res.RunID)

	if format == exporter.FormatJSON {
		render.JSON(w, r, ValidateResponse{
			RunID:       res.RunID,
			Fingerprint: res.Fingerprint,
			Source:      res.Source,
			DurationMS:  res.Duration.Milliseconds(),
			InputRows:   res.InputRows,
			Join:        res.Join,
			Report:      exporter.NewReport(res.TableResult),
		})
		return
	}

	// Buffer the export so a failure can still be reported as a problem
	var buf bytes.Buffer
	if err := exporter.Export(&buf, format, res.TableResult); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := config.ExportFileName(res.Source, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(ctx, "Failed to write export",
			slog.String("run_id", res.RunID),
			slog.String("error", err.Error()))
	}
}

// Parse handles POST /api/parse
func (h *ValidateHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req api.ParseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, formError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FromValidator(err))
		return
	}

	quantities := h.service.Parse(req.Descriptions)
	resp := api.ParseResponse{Results: make([]api.ParseResult, len(quantities))}
	for i, q := range quantities {
		resp.Results[i] = api.ParseResult{Description: req.Descriptions[i], Quantity: q}
	}
	render.JSON(w, r, resp)
}

// readUpload returns the multipart file in field, or nil when an optional
// field is absent
func readUpload(r *http.Request, field string, required bool) (*services.Source, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return nil, apierrors.MissingFileError(field)
		}
		return nil, nil
	}
	if err != nil {
		return nil, formError(err)
	}
	defer file.Close()

	if !validation.IsSupportedExtension(header.Filename) {
		return nil, apierrors.UnsupportedMediaType(header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, formError(err)
	}
	return &services.Source{Name: header.Filename, Data: data}, nil
}

// formError keeps body-size errors intact so they map to 413
func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}

// splitList splits a comma separated form value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
