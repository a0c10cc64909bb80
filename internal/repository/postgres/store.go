package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sheetfeed/internal/domain"
	"sheetfeed/internal/domain/models"
	"sheetfeed/internal/domain/repositories"
)

// RecordStoreConfig holds the dependencies of the postgres record store.
type RecordStoreConfig struct {
	Pool        *pgxpool.Pool
	TablePrefix string
	Logger      *slog.Logger
}

// PostgresRecordStore implements repositories.RecordStore over dynamically
// named collection tables. Collection and field names are validated upstream
// against a strict identifier pattern and additionally quoted here, so the
// interpolated SQL never sees caller-controlled syntax.
type PostgresRecordStore struct {
	pool   *pgxpool.Pool
	prefix string
	logger *slog.Logger
}

// NewRecordStore creates a record store writing to prefix-qualified tables.
func NewRecordStore(config *RecordStoreConfig) repositories.RecordStore {
	return &PostgresRecordStore{
		pool:   config.Pool,
		prefix: config.TablePrefix,
		logger: config.Logger,
	}
}

// Query returns existing records whose key fields match any of the filter's
// value sets, one conjunctive condition per set. Only the id and the key
// field values are selected; NULL key values read back as empty strings so
// composite keys compose identically on both sides of a match.
func (s *PostgresRecordStore) Query(ctx context.Context, filter repositories.KeyFilter) ([]models.ExistingRecord, error) {
	if len(filter.KeySets) == 0 {
		return nil, nil
	}

	columns := make([]string, 0, len(filter.KeyFields)+1)
	columns = append(columns, "id::text")
	for _, key := range filter.KeyFields {
		columns = append(columns, fmt.Sprintf(`COALESCE(%s::text, '')`, quoteIdent(key)))
	}

	var (
		conditions []string
		args       []any
	)
	for _, set := range filter.KeySets {
		parts := make([]string, len(filter.KeyFields))
		for i, key := range filter.KeyFields {
			args = append(args, set[i])
			parts[i] = fmt.Sprintf("%s::text = $%d", quoteIdent(key), len(args))
		}
		conditions = append(conditions, "("+strings.Join(parts, " AND ")+")")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(columns, ", "),
		s.tableName(filter.Collection),
		strings.Join(conditions, " OR "),
	)
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var records []models.ExistingRecord
	for rows.Next() {
		record := models.ExistingRecord{Fields: make(models.Fields, len(filter.KeyFields))}
		dests := make([]any, 0, len(filter.KeyFields)+1)
		dests = append(dests, &record.ID)
		values := make([]string, len(filter.KeyFields))
		for i := range filter.KeyFields {
			dests = append(dests, &values[i])
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan existing record: %w", err)
		}
		for i, key := range filter.KeyFields {
			record.Fields[key] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return records, nil
}

// CreateOne inserts a record and returns its identifier as text.
func (s *PostgresRecordStore) CreateOne(ctx context.Context, collection string, fields models.Fields) (string, error) {
	names := sortedFieldNames(fields)

	columns := make([]string, len(names))
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		columns[i] = quoteIdent(name)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id::text",
		s.tableName(collection),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id string
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", translateError(err)
	}
	return id, nil
}

// UpdateOne overwrites the given fields on an existing record.
func (s *PostgresRecordStore) UpdateOne(ctx context.Context, collection, id string, fields models.Fields) error {
	names := sortedFieldNames(fields)

	assignments := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	args = append(args, id)
	for i, name := range names {
		args = append(args, fields[name])
		assignments[i] = fmt.Sprintf("%s = $%d", quoteIdent(name), len(args))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id::text = $1",
		s.tableName(collection),
		strings.Join(assignments, ", "),
	)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *PostgresRecordStore) tableName(collection string) string {
	return quoteIdent(s.prefix + collection)
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedFieldNames(fields models.Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
