// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError    = "error"
	FieldPath     = "path"
	FieldOldPath  = "old_path"
	FieldNewPath  = "new_path"
	FieldOutput   = "output"
	FieldDuration = "duration"

	// Configuration fields.
	FieldCapabilities = "capabilities"
	FieldJobs         = "jobs"
	FieldFormat       = "format"
	FieldConfigFile   = "config_file"

	// Analysis fields.
	FieldDeclaration = "declaration"
	FieldUnits       = "units"
	FieldEdits       = "edits"
	FieldRule        = "rule"
	FieldKind        = "kind"
	FieldBlocking    = "blocking"
	FieldApplicable  = "applicable"
	FieldSemantic    = "semantic_edits"

	// Statistics fields.
	FieldDocuments        = "documents"
	FieldDocumentsBlocked = "documents_blocked"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldSession          = "session"
	FieldScenario         = "scenario"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule listing fields.
	FieldName     = "name"
	FieldSeverity = "severity"
)
