package diagnostic

import (
	"errors"
	"strings"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one finding about a form definition. Form names the root
// form and FieldPath the full name of the mapping or field; both may be empty.
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Form        string
	FieldPath   string
	Suggestions []string
}

// Error renders the diagnostic as
//
//	[form] path: [code] message (did you mean a, b?)
func (d Diagnostic) Error() string {
	var b strings.Builder

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	if loc := strings.TrimSpace(bracket(d.Form) + " " + d.FieldPath); loc != "" {
		return loc + ": " + b.String()
	}

	return b.String()
}

func bracket(s string) string {
	if s == "" {
		return ""
	}

	return "[" + s + "]"
}

func (d Diagnostic) String() string { return d.Error() }

// Diagnostics collects the findings of one definition check, split by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) AddError(code, message, form, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{SeverityError, code, message, form, fieldPath, suggestions})
}

func (d *Diagnostics) AddWarning(code, message, form, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{SeverityWarning, code, message, form, fieldPath, suggestions})
}

func (d *Diagnostics) AddInfo(code, message, form, fieldPath string) {
	d.Add(Diagnostic{SeverityInfo, code, message, form, fieldPath, nil})
}

// Add files diag under its severity. Unknown severities count as errors.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityInfo:
		d.Infos = append(d.Infos, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Errors = append(d.Errors, diag)
	}
}

// Merge appends every finding of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	for _, list := range [][]Diagnostic{other.Errors, other.Warnings, other.Infos} {
		for _, diag := range list {
			d.Add(diag)
		}
	}
}

func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }

// IsValid reports whether the check found no errors. Warnings do not count.
func (d *Diagnostics) IsValid() bool { return !d.HasErrors() }

// Codes returns the codes of the errors in the order they were found.
func (d *Diagnostics) Codes() []string {
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

// Err joins the errors, one per line, or returns nil when there are none.
// Each joined error is a Diagnostic and can be recovered with errors.As.
func (d *Diagnostics) Err() error {
	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, e)
	}

	return errors.Join(errs...)
}
