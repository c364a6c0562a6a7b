package validator

import "fmt"

// Report accumulates the outcome of one validation run. It is created
// fresh per run and returned once complete; warnings never affect Valid.
type Report struct {
	// Errors block the blueprint from being considered valid.
	Errors []string

	// Warnings are advisory and never affect validity.
	Warnings []string
}

// Valid reports whether the run produced no errors.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
