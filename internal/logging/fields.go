// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldConfig = "config"
	FieldRunID  = "run_id"

	// Entity fields.
	FieldEntity = "entity"
	FieldRefID  = "refid"
	FieldKind   = "kind"
	FieldMember = "member"
	FieldSource = "source"
	FieldPages  = "pages"

	// Run fields.
	FieldJobs         = "jobs"
	FieldTest         = "test"
	FieldKeepExisting = "keep_existing"

	// Statistics fields.
	FieldEntitiesDiscovered = "entities_discovered"
	FieldEntitiesSelected   = "entities_selected"
	FieldEntitiesConverted  = "entities_converted"
	FieldPagesWritten       = "pages_written"
	FieldWarnings           = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
