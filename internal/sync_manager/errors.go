package sync_manager

import "fmt"

// LogAccessError means EE.log could not be located or read.
type LogAccessError struct {
	Path string
	Err  error
}

func (e *LogAccessError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to locate EE.log: %v", e.Err)
	}
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *LogAccessError) Unwrap() error { return e.Err }

// MutationError means the marketplace rejected an edit or delete. Trades
// reconciled before it stay applied.
type MutationError struct {
	Op        string
	ListingID string
	Item      string
	Err       error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("failed to %s listing %s (%s): %v", e.Op, e.ListingID, e.Item, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
