package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sheetfeed/internal/config"
	"sheetfeed/internal/domain"
	"sheetfeed/internal/domain/services"
	"sheetfeed/internal/i18n"
)

// fakeImporter returns a canned summary or error and records the request.
type fakeImporter struct {
	summary *services.JobSummary
	err     error
	lastReq *services.ImportRequest
}

func (f *fakeImporter) Run(_ context.Context, req *services.ImportRequest) (*services.JobSummary, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func newTestHandler(importer services.Importer) *ImportHandler {
	catalog, err := i18n.Load()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{DefaultBatchSize: 100, MaxUploadMB: 32}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewImportHandler(importer, catalog, cfg, logger)
}

type formField struct {
	name, value string
}

func multipartRequest(t *testing.T, filename string, fileData []byte, fields ...formField) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			t.Fatalf("write field %s: %v", field.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func defaultFields() []formField {
	return []formField{
		{"collection", "products"},
		{"mapping", `{"0": "sku"}`},
		{"firstRowIsHeader", "true"},
	}
}

func TestImportCleanJob(t *testing.T) {
	importer := &fakeImporter{summary: &services.JobSummary{
		Created:  2,
		Outcomes: []services.Outcome{{Row: 2, ID: "rec-1", Action: "created"}, {Row: 3, ID: "rec-2", Action: "created"}},
		Batches:  services.BatchInfo{TotalBatches: 1, BatchSize: 100, TotalItems: 2},
	}}
	h := newTestHandler(importer)

	req := multipartRequest(t, "items.csv", []byte("sku\nA-1\nA-2\n"), defaultFields()...)
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Created != 2 {
		t.Errorf("created = %d", resp.Created)
	}
	if resp.Message != "2 items processed: 2 created." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Failed == nil || len(resp.Failed) != 0 {
		t.Errorf("failed = %v, want empty array", resp.Failed)
	}

	if importer.lastReq.Collection != "products" {
		t.Errorf("collection passed = %q", importer.lastReq.Collection)
	}
	if !importer.lastReq.FirstRowIsHeader {
		t.Error("firstRowIsHeader not parsed")
	}
	if importer.lastReq.BatchSize != 100 {
		t.Errorf("batchSize = %d, want configured default", importer.lastReq.BatchSize)
	}
	if len(importer.lastReq.Rows) != 3 {
		t.Errorf("rows passed = %d", len(importer.lastReq.Rows))
	}
}

func TestImportPartialFailureReturns207(t *testing.T) {
	importer := &fakeImporter{summary: &services.JobSummary{
		Created: 1,
		Failed: []services.ErrorEntry{
			{Row: 3, Message: "boom", Code: domain.CodeRecordNotUnique, Category: "validation"},
		},
		Batches: services.BatchInfo{TotalBatches: 1, BatchSize: 100, TotalItems: 2},
		Outcomes: []services.Outcome{
			{Row: 2, ID: "rec-1", Action: "created"},
		},
	}}
	h := newTestHandler(importer)

	req := multipartRequest(t, "items.csv", []byte("sku\nA-1\nA-1\n"), defaultFields()...)
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "2 items processed: 1 created, 1 errors." {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Failed) != 1 || resp.Failed[0].Code != domain.CodeRecordNotUnique {
		t.Errorf("failed = %v", resp.Failed)
	}
}

func TestImportMissingInputs(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		fields     []formField
		wantDetail string
	}{
		{
			name:       "missing file",
			filename:   "",
			fields:     defaultFields(),
			wantDetail: "Missing spreadsheet file.",
		},
		{
			name:       "missing collection",
			filename:   "items.csv",
			fields:     []formField{{"mapping", `{"0": "sku"}`}},
			wantDetail: "Missing target collection.",
		},
		{
			name:       "missing mapping",
			filename:   "items.csv",
			fields:     []formField{{"collection", "products"}},
			wantDetail: "Missing mapping.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeImporter{})

			req := multipartRequest(t, tt.filename, []byte("sku\nA-1\n"), tt.fields...)
			rec := httptest.NewRecorder()
			h.Import(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var problem map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			if problem["detail"] != tt.wantDetail {
				t.Errorf("detail = %v, want %q", problem["detail"], tt.wantDetail)
			}
		})
	}
}

func TestImportLocalizedError(t *testing.T) {
	h := newTestHandler(&fakeImporter{})

	req := multipartRequest(t, "", nil, defaultFields()...)
	req.Header.Set("Accept-Language", "es-ES")
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Missing spreadsheet file.") {
		t.Errorf("body not localized: %s", rec.Body.String())
	}
}

func TestImportJobErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "precondition",
			err:        &domain.PreconditionError{Message: "Empty spreadsheet file."},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Empty spreadsheet file.",
		},
		{
			name:       "permission",
			err:        &domain.PermissionError{Message: "denied"},
			wantStatus: http.StatusForbidden,
			wantBody:   domain.CodeForbidden,
		},
		{
			name:       "unexpected",
			err:        io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantBody:   domain.CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeImporter{err: tt.err})

			req := multipartRequest(t, "items.csv", []byte("sku\nA-1\n"), defaultFields()...)
			rec := httptest.NewRecorder()
			h.Import(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want substring %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestImportUndecodableFileReturns500(t *testing.T) {
	h := newTestHandler(&fakeImporter{})

	req := multipartRequest(t, "workbook.xlsx", []byte("not a workbook"), defaultFields()...)
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
