package importer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"sheetfeed/internal/domain/services"
)

//go:embed config_schema.json
var configSchemaJSON []byte

// configSchema validates the shape of the caller-supplied JSON configuration
// once, up front, so malformed mappings fail the job before any row is read.
var configSchema = mustCompileConfigSchema()

func mustCompileConfigSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config_schema.json", bytes.NewReader(configSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add config schema: %v", err))
	}
	return compiler.MustCompile("config_schema.json")
}

// identifierRe restricts collection, field and key names to plain SQL-safe
// identifiers. Anything fancier is rejected as a precondition failure.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// jobConfig is the validated, typed form of one import job's configuration.
type jobConfig struct {
	Collection       string
	Mapping          map[string]string
	FieldTypes       map[string]string
	DateFormats      map[string]string
	Transformations  map[string][]string
	KeyFields        []string
	FirstRowIsHeader bool
	BatchSize        int
}

// parseConfig decodes and validates the raw request configuration. Every
// caller-supplied JSON field is checked against the embedded schema first,
// then the decoded values get semantic validation. Failures here are
// precondition failures: nothing has been read or written yet.
func parseConfig(req *services.ImportRequest) (*jobConfig, error) {
	doc, err := assembleConfigDocument(req)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := configSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("configuration shape: %w", err)
	}

	var shape struct {
		Mapping         map[string]string   `json:"mapping"`
		FieldTypes      map[string]string   `json:"fieldTypes"`
		DateFormats     map[string]string   `json:"dateFormats"`
		Transformations map[string][]string `json:"transformations"`
		KeyFields       json.RawMessage     `json:"keyFields"`
	}
	if err := json.Unmarshal(doc, &shape); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	keyFields, err := decodeKeyFields(shape.KeyFields)
	if err != nil {
		return nil, err
	}

	cfg := &jobConfig{
		Collection:       req.Collection,
		Mapping:          shape.Mapping,
		FieldTypes:       shape.FieldTypes,
		DateFormats:      shape.DateFormats,
		Transformations:  shape.Transformations,
		KeyFields:        keyFields,
		FirstRowIsHeader: req.FirstRowIsHeader,
		BatchSize:        req.BatchSize,
	}
	if cfg.FieldTypes == nil {
		cfg.FieldTypes = map[string]string{}
	}
	if cfg.DateFormats == nil {
		cfg.DateFormats = map[string]string{}
	}
	if cfg.Transformations == nil {
		cfg.Transformations = map[string][]string{}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *jobConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Collection, validation.Required, validation.Match(identifierRe)),
		validation.Field(&c.Mapping, validation.Required, validation.Each(validation.Match(identifierRe))),
		validation.Field(&c.KeyFields, validation.Each(validation.Required, validation.Match(identifierRe))),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
	)
}

// assembleConfigDocument combines the raw JSON form fields into a single
// object. json.Marshal of a RawMessage rejects invalid JSON, so a broken
// fragment surfaces here with the offending field name.
func assembleConfigDocument(req *services.ImportRequest) ([]byte, error) {
	fields := map[string]string{
		"mapping":         req.Mapping,
		"fieldTypes":      req.FieldTypes,
		"dateFormats":     req.DateFormats,
		"transformations": req.Transformations,
		"keyFields":       req.KeyFields,
	}

	doc := make(map[string]json.RawMessage, len(fields))
	for name, raw := range fields {
		if raw == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("field %q is not valid JSON", name)
		}
		doc[name] = json.RawMessage(raw)
	}

	return json.Marshal(doc)
}

// decodeKeyFields accepts either a single field name or an array of names.
// An absent value means insert-only mode.
func decodeKeyFields(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("keyFields must be a string or an array of strings")
	}
	return list, nil
}
