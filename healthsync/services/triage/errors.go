package triage

import "fmt"

// ValidationError rejects bad caller input before any external call is made.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Detail
}

// UpstreamServiceError wraps a reasoning or extraction backend failure.
type UpstreamServiceError struct {
	Backend string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("upstream %s backend error: %v", e.Backend, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a database write failure. Whether it propagates
// depends on the write: chat sessions and triage records swallow it, while
// appointment creation surfaces it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
