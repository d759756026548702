// Package galechurch implements length-based sentence alignment (Gale & Church, 1993).
package galechurch

import "fmt"

// InputError represents sequences the aligner cannot work with
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("gale-church input error: %s", e.Message)
}
