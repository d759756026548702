// Package segmentation turns raw document text into blocks of role-tagged sentences.
package segmentation

import "fmt"

// RulesError represents an invalid or incomplete SegmentationRules value
type RulesError struct {
	Message string
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("segmentation rules error: %s", e.Message)
}

// SegmentError represents a failure to segment an input document
type SegmentError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SegmentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("segment error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("segment error: %s: %s", e.Path, e.Message)
}

func (e *SegmentError) Unwrap() error {
	return e.Cause
}
