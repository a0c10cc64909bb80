package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"sheetfeed/internal/config"
	"sheetfeed/internal/decoder"
	"sheetfeed/internal/domain"
	"sheetfeed/internal/domain/services"
	"sheetfeed/internal/httputil"
	"sheetfeed/internal/i18n"
)

// ImportHandler handles bulk spreadsheet import HTTP requests.
type ImportHandler struct {
	importer services.Importer
	catalog  *i18n.Catalog
	cfg      *config.Config
	logger   *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer services.Importer, catalog *i18n.Catalog, cfg *config.Config, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
	}
}

// ImportResponse is the summary returned for an import job.
type ImportResponse struct {
	Message   string                `json:"message"`
	Created   int                   `json:"created"`
	Updated   int                   `json:"updated"`
	Failed    []services.ErrorEntry `json:"failed"`
	BatchInfo services.BatchInfo    `json:"batchInfo"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// Import runs one bulk import job.
// POST /api/imports
//
// Multipart form fields: file (binary), collection, mapping (JSON object),
// fieldTypes, dateFormats, transformations, keyFields (JSON, optional),
// firstRowIsHeader ("true"), batchSize (int, optional).
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	msgs := h.catalog.Match(r.Header.Get("Accept-Language"))

	if err := r.ParseMultipartForm(h.cfg.MaxUploadMB << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msgs.Get("missing_file"))
		return
	}
	defer func() { _ = file.Close() }()

	collection := r.FormValue("collection")
	if collection == "" {
		httputil.RespondError(w, http.StatusBadRequest, msgs.Get("missing_collection"))
		return
	}

	mapping := r.FormValue("mapping")
	if mapping == "" {
		httputil.RespondError(w, http.StatusBadRequest, msgs.Get("missing_mapping"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read file %s", header.Filename))
		return
	}

	rows, err := decoder.Decode(header.Filename, data)
	if err != nil {
		h.logger.Error("failed to decode uploaded file", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError,
			msgs.Format("internal_error", map[string]string{"error": err.Error()}))
		return
	}

	req := &services.ImportRequest{
		Collection:       collection,
		Mapping:          mapping,
		FieldTypes:       r.FormValue("fieldTypes"),
		DateFormats:      r.FormValue("dateFormats"),
		Transformations:  r.FormValue("transformations"),
		KeyFields:        r.FormValue("keyFields"),
		FirstRowIsHeader: httputil.FormBool(r, "firstRowIsHeader"),
		BatchSize:        httputil.FormInt(r, "batchSize", h.cfg.DefaultBatchSize),
		ActorID:          httputil.GetActorID(r),
		Rows:             rows,
		Messages:         msgs,
	}

	h.logger.Info("starting import",
		"collection", collection,
		"file", header.Filename,
		"rows", len(rows),
		"locale", msgs.Tag().String(),
	)

	summary, err := h.importer.Run(r.Context(), req)
	if err != nil {
		h.respondJobError(w, err, msgs)
		return
	}

	response := ImportResponse{
		Message:   summaryMessage(summary, msgs),
		Created:   summary.Created,
		Updated:   summary.Updated,
		Failed:    summary.Failed,
		BatchInfo: summary.Batches,
		Warnings:  summary.Warnings,
	}
	if response.Failed == nil {
		response.Failed = []services.ErrorEntry{}
	}

	status := http.StatusOK
	if len(summary.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	httputil.RespondJSON(w, status, response)
}

// respondJobError maps a job-level failure to an HTTP status: 400 for
// precondition failures, 403 for permission denial, 500 otherwise.
func (h *ImportHandler) respondJobError(w http.ResponseWriter, err error, msgs *i18n.Messages) {
	if errors.Is(err, domain.ErrForbidden) {
		h.logger.Error("import forbidden", "error", err)
		httputil.RespondErrorWithExtras(w, http.StatusForbidden,
			msgs.Get("permission_collection"),
			map[string]interface{}{"code": domain.CodeForbidden})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	h.logger.Error("import failed", "error", err)
	httputil.RespondErrorWithExtras(w, http.StatusInternalServerError,
		msgs.Format("internal_error", map[string]string{"error": err.Error()}),
		map[string]interface{}{"code": domain.CodeUnknown})
}

// summaryMessage renders the human-readable one-liner, e.g.
// "3 items processed: 3 created."
func summaryMessage(summary *services.JobSummary, msgs *i18n.Messages) string {
	var parts []string
	if summary.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", summary.Created, msgs.Get("created")))
	}
	if summary.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", summary.Updated, msgs.Get("updated")))
	}
	if len(summary.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", len(summary.Failed), msgs.Get("failed")))
	}

	detail := msgs.Get("none")
	if len(parts) > 0 {
		detail = strings.Join(parts, ", ")
	}

	total := len(summary.Outcomes) + len(summary.Failed)
	return fmt.Sprintf("%d %s %s.", total, msgs.Get("processed_items_prefix"), detail)
}
