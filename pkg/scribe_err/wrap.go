// pkg/scribe_err/wrap.go

package scribe_err

// WrapValidationError classifies err, typically a flag or argument parse
// failure, as a validation error.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     "invalid command line",
		Cause:       err,
		Remediation: []string{"Run 'scribe <command> --help' for usage"},
	}
}
