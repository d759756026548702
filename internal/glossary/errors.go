// Package glossary induces a word translation table from a bitext and filters it
// into a glossary of unambiguous word pairs.
package glossary

import "fmt"

// TrainingError represents a failure of the word alignment model
type TrainingError struct {
	Message string
	Cause   error
}

func (e *TrainingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("training error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("training error: %s", e.Message)
}

func (e *TrainingError) Unwrap() error {
	return e.Cause
}
