package diag

// Diagnostic is one finding produced while ingesting or analysing foreign
// declarations. Subject names the foreign entity (a type spelling or a
// declaration name) the finding is about.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  string
	Notes    []string
}
