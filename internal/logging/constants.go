package logging

// Standard field names, so log output stays filterable across components.
const (
	FieldRunID      = "run_id"
	FieldLayout     = "layout"
	FieldPage       = "page"
	FieldBlock      = "block"
	FieldRow        = "row"
	FieldLine       = "line"
	FieldState      = "state"
	FieldCount      = "count"
	FieldStrategy   = "strategy"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
	FieldDuration   = "duration_ms"
)
