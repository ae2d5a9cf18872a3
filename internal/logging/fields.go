// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldEvent      = "event"

	// Rule source fields.
	FieldSource   = "source"
	FieldIdentity = "identity"
	FieldFolder   = "folder"
	FieldFolders  = "folders"
	FieldRules    = "rules"

	// Index fields.
	FieldKey            = "key"
	FieldKeys           = "keys"
	FieldEntries        = "entries"
	FieldMissingFolders = "missing_folders"
	FieldFailedFiles    = "failed_files"
	FieldWatches        = "watches"
	FieldDuration       = "duration"

	// Configuration fields.
	FieldRulesFolder = "rules_folder"
	FieldCheckOnSave = "check_on_save"
	FieldLanguage    = "language"
	FieldJobs        = "jobs"
	FieldCommand     = "command"
	FieldSchedule    = "schedule"
	FieldAddr        = "addr"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesChecked     = "files_checked"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
