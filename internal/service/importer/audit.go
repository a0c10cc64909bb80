package importer

import (
	"time"

	"sheetfeed/internal/domain/models"
)

// Audit field names reserved for the system. A caller-controlled mapping must
// never be allowed to forge provenance, so any mapped value under these names
// is dropped before stamping.
var reservedAuditFields = []string{
	"user_created",
	"date_created",
	"user_updated",
	"date_updated",
	"sort",
}

// stampAudit returns a copy of fields with audit provenance attached.
// Creates stamp all four provenance fields; updates only touch the
// last-modified pair. Callers skip stamping entirely when no actor is known.
func stampAudit(fields models.Fields, actorID string, isUpdate bool, now time.Time) models.Fields {
	stamped := fields.Clone()
	for _, field := range reservedAuditFields {
		delete(stamped, field)
	}

	timestamp := now.UTC().Format(time.RFC3339)
	if !isUpdate {
		stamped["user_created"] = actorID
		stamped["date_created"] = timestamp
	}
	stamped["user_updated"] = actorID
	stamped["date_updated"] = timestamp
	return stamped
}
