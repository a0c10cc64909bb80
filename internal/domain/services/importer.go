package services

import (
	"context"

	"sheetfeed/internal/i18n"
)

// Importer runs one bulk import job: raw rows in, per-row outcomes out.
type Importer interface {
	// Run transforms the decoded rows into candidate records, reconciles them
	// against the target collection in batches and returns the job summary.
	// The returned error is non-nil only for job-level failures (precondition
	// or collection-wide permission); per-item failures are collected in the
	// summary and never abort the job.
	Run(ctx context.Context, req *ImportRequest) (*JobSummary, error)
}

// ImportRequest carries everything one import job needs. The mapping and
// per-column metadata arrive as raw JSON exactly as submitted by the caller;
// the importer validates and decodes them once, up front.
type ImportRequest struct {
	Collection string

	// Raw JSON configuration fields from the multipart form.
	Mapping         string
	FieldTypes      string
	DateFormats     string
	Transformations string
	KeyFields       string

	FirstRowIsHeader bool
	BatchSize        int

	// ActorID is the authenticated user recorded in audit fields. Empty when
	// the request was not authenticated; audit stamping is then skipped.
	ActorID string

	// Rows is the decoded spreadsheet content, header row included.
	Rows [][]string

	// Messages is the resolved locale table for user-facing strings.
	Messages *i18n.Messages
}

// Outcome is one successfully persisted candidate.
type Outcome struct {
	Row    int    `json:"row"`
	ID     string `json:"id"`
	Action string `json:"action"` // "created" or "updated"
	Key    string `json:"key,omitempty"`
}

// ErrorEntry is one candidate that failed to persist.
type ErrorEntry struct {
	Row      int    `json:"row"`
	Message  string `json:"error"`
	Code     string `json:"code"`
	Category string `json:"type"` // "permission", "validation" or "internal"
	Key      string `json:"key,omitempty"`
}

// BatchInfo describes how the job was partitioned.
type BatchInfo struct {
	TotalBatches int `json:"totalBatches"`
	BatchSize    int `json:"batchSize"`
	TotalItems   int `json:"totalItems"`
}

// JobSummary is the aggregate result of one import job.
type JobSummary struct {
	Created  int
	Updated  int
	Outcomes []Outcome
	Failed   []ErrorEntry
	Batches  BatchInfo
	Warnings []string
}
