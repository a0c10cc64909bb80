package repositories

import (
	"context"

	"sheetfeed/internal/domain/models"
)

// KeyFilter selects existing records whose key field values match any of the
// given value sets: one conjunctive condition per set, combined disjunctively.
// Each entry of KeySets is aligned positionally with KeyFields.
type KeyFilter struct {
	Collection string
	KeyFields  []string
	KeySets    [][]string
	Limit      int
}

// RecordStore is the persistence collaborator of the import pipeline.
// Implementations translate their native failures into the domain error
// taxonomy (domain.ValidationError, domain.PermissionError).
type RecordStore interface {
	// Query returns existing records matching the key filter. Only the id and
	// the key fields of each record are guaranteed to be populated.
	Query(ctx context.Context, filter KeyFilter) ([]models.ExistingRecord, error)

	// CreateOne inserts a record and returns its new identifier.
	CreateOne(ctx context.Context, collection string, fields models.Fields) (string, error)

	// UpdateOne overwrites the given fields on an existing record.
	UpdateOne(ctx context.Context, collection, id string, fields models.Fields) error
}
