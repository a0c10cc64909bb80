package importer

import (
	"context"
	"fmt"
	"log/slog"

	"sheetfeed/internal/domain/models"
	"sheetfeed/internal/domain/repositories"
	"sheetfeed/internal/i18n"
)

// insertOnly submits every candidate as a create. Candidates fail or succeed
// independently; a rejected item never blocks its siblings.
func (s *Service) insertOnly(ctx context.Context, batches [][]models.Candidate, cfg *jobConfig, actorID string, msgs *i18n.Messages, acc *accumulator, logger *slog.Logger) {
	for batchIndex, batch := range batches {
		logger.Info("processing batch",
			"batch", batchIndex+1,
			"total_batches", len(batches),
			"items", len(batch),
		)

		for _, candidate := range batch {
			s.submit(ctx, cfg, candidate, "", "", actorID, msgs, acc, logger)
		}
	}
}

// upsert reconciles each batch against existing records by composite key.
// The key precondition spans the entire job: if any candidate lacks a key
// field, the job fails before a single write.
func (s *Service) upsert(ctx context.Context, batches [][]models.Candidate, cfg *jobConfig, actorID string, msgs *i18n.Messages, acc *accumulator, logger *slog.Logger) error {
	for batchIndex, batch := range batches {
		logger.Info("processing batch",
			"batch", batchIndex+1,
			"total_batches", len(batches),
			"items", len(batch),
		)

		lookup, err := s.lookupExisting(ctx, batch, cfg)
		if err != nil {
			return err
		}
		logger.Info("existing records matched",
			"batch", batchIndex+1,
			"matches", len(lookup),
		)

		for _, candidate := range batch {
			compositeKey := candidate.Fields.CompositeKey(cfg.KeyFields)
			keyDisplay := candidate.Fields.KeyDisplay(cfg.KeyFields)

			if existing, ok := lookup[compositeKey]; ok {
				s.submit(ctx, cfg, candidate, existing.ID, keyDisplay, actorID, msgs, acc, logger)
			} else {
				s.submit(ctx, cfg, candidate, "", keyDisplay, actorID, msgs, acc, logger)
			}
		}
	}
	return nil
}

// lookupExisting queries the store for records matching any candidate's key
// values and indexes them by composite key. The limit carries a 2x margin to
// tolerate duplicate matches on the same key.
func (s *Service) lookupExisting(ctx context.Context, batch []models.Candidate, cfg *jobConfig) (map[string]models.ExistingRecord, error) {
	keySets := make([][]string, len(batch))
	for i, candidate := range batch {
		set := make([]string, len(cfg.KeyFields))
		for j, key := range cfg.KeyFields {
			set[j] = candidate.Fields[key]
		}
		keySets[i] = set
	}

	existing, err := s.store.Query(ctx, repositories.KeyFilter{
		Collection: cfg.Collection,
		KeyFields:  cfg.KeyFields,
		KeySets:    keySets,
		Limit:      len(batch) * 2,
	})
	if err != nil {
		return nil, fmt.Errorf("query existing records: %w", err)
	}

	lookup := make(map[string]models.ExistingRecord, len(existing))
	for _, record := range existing {
		lookup[record.Fields.CompositeKey(cfg.KeyFields)] = record
	}
	return lookup, nil
}

// submit performs one create or update. existingID empty means create.
// Failures are classified and recorded; they never propagate.
func (s *Service) submit(ctx context.Context, cfg *jobConfig, candidate models.Candidate, existingID, keyDisplay, actorID string, msgs *i18n.Messages, acc *accumulator, logger *slog.Logger) {
	isUpdate := existingID != ""

	fields := candidate.Fields
	if actorID != "" {
		fields = stampAudit(fields, actorID, isUpdate, s.now())
	}

	var (
		id     string
		action string
		err    error
	)
	if isUpdate {
		id, action = existingID, "updated"
		err = s.store.UpdateOne(ctx, cfg.Collection, existingID, fields)
	} else {
		action = "created"
		id, err = s.store.CreateOne(ctx, cfg.Collection, fields)
	}

	if err != nil {
		entry := classifyItemError(err, candidate.Fields, msgs)
		entry.Row = candidate.SourceRow
		entry.Key = keyDisplay
		acc.failure(entry)
		logger.Error("item failed",
			"row", candidate.SourceRow,
			"code", entry.Code,
			"category", entry.Category,
			"error", entry.Message,
		)
		return
	}

	acc.success(candidate.SourceRow, id, action, keyDisplay)
	logger.Info("item persisted",
		"row", candidate.SourceRow,
		"action", action,
		"key", keyDisplay,
	)
}
