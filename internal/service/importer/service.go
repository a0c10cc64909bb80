// Package importer implements the row-to-record transformation and batched
// upsert-reconciliation engine behind the bulk import endpoint.
package importer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sheetfeed/internal/domain"
	"sheetfeed/internal/domain/models"
	"sheetfeed/internal/domain/repositories"
	"sheetfeed/internal/domain/services"
)

// Service implements services.Importer against a RecordStore.
type Service struct {
	store  repositories.RecordStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the import service.
func NewService(store repositories.RecordStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Run executes one import job end to end: validate configuration, map rows to
// candidates, batch, reconcile against the store and aggregate the outcome.
func (s *Service) Run(ctx context.Context, req *services.ImportRequest) (*services.JobSummary, error) {
	msgs := req.Messages
	logger := s.logger.With(
		"job_id", uuid.NewString(),
		"collection", req.Collection,
	)

	cfg, err := parseConfig(req)
	if err != nil {
		return nil, &domain.PreconditionError{
			Message: msgs.Format("invalid_config", map[string]string{"error": err.Error()}),
		}
	}

	if len(req.Rows) == 0 {
		return nil, &domain.PreconditionError{Message: msgs.Get("empty_file")}
	}

	headerOffset := 0
	if cfg.FirstRowIsHeader {
		headerOffset = 1
	}
	dataRows := req.Rows[headerOffset:]
	if len(dataRows) == 0 {
		return nil, &domain.PreconditionError{Message: msgs.Get("no_valid_items")}
	}

	logger.Info("import started",
		"data_rows", len(dataRows),
		"first_row_is_header", cfg.FirstRowIsHeader,
		"key_fields", strings.Join(cfg.KeyFields, ","),
		"batch_size", cfg.BatchSize,
	)

	candidates := make([]models.Candidate, 0, len(dataRows))
	for i, row := range dataRows {
		candidate := mapRow(row, headerOffset+i+1, cfg, logger)
		if len(candidate.Fields) == 0 {
			continue
		}
		candidates = append(candidates, candidate)
	}
	if len(candidates) == 0 {
		return nil, &domain.PreconditionError{Message: msgs.Get("no_valid_items")}
	}

	acc := &accumulator{}
	if req.ActorID == "" {
		logger.Warn("actor unknown, audit fields will not be populated")
		acc.warnings = append(acc.warnings, msgs.Get("audit_actor_unavailable"))
	}

	batches := chunk(candidates, cfg.BatchSize)

	if len(cfg.KeyFields) > 0 {
		// The key precondition spans the whole job, checked before any write.
		for _, key := range cfg.KeyFields {
			for _, candidate := range candidates {
				if _, ok := candidate.Fields[key]; !ok {
					return nil, &domain.PreconditionError{
						Message: msgs.Format("missing_key_for_upsert", map[string]string{"keyField": key}),
					}
				}
			}
		}
		if err := s.upsert(ctx, batches, cfg, req.ActorID, msgs, acc, logger); err != nil {
			return nil, err
		}
	} else {
		s.insertOnly(ctx, batches, cfg, req.ActorID, msgs, acc, logger)
	}

	summary := acc.summary(services.BatchInfo{
		TotalBatches: len(batches),
		BatchSize:    cfg.BatchSize,
		TotalItems:   len(candidates),
	})

	logger.Info("import finished",
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", len(summary.Failed),
	)
	return summary, nil
}

// accumulator threads the running job outcome through batch processing so the
// final summary is merged deterministically at the end.
type accumulator struct {
	created  int
	updated  int
	outcomes []services.Outcome
	failed   []services.ErrorEntry
	warnings []string
}

func (a *accumulator) success(row int, id, action, key string) {
	a.outcomes = append(a.outcomes, services.Outcome{Row: row, ID: id, Action: action, Key: key})
	if action == "updated" {
		a.updated++
	} else {
		a.created++
	}
}

func (a *accumulator) failure(entry services.ErrorEntry) {
	a.failed = append(a.failed, entry)
}

func (a *accumulator) summary(batches services.BatchInfo) *services.JobSummary {
	return &services.JobSummary{
		Created:  a.created,
		Updated:  a.updated,
		Outcomes: a.outcomes,
		Failed:   a.failed,
		Batches:  batches,
		Warnings: a.warnings,
	}
}
