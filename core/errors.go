package core

import "fmt"

var (
	// ErrRunNotFound is returned when the backend holds no record for the
	// requested run identifier. Consumers treat it like any other transport
	// failure: the run is marked failed with a generic diagnostic.
	ErrRunNotFound = fmt.Errorf("run not found")

	// ErrRecordNotFound is returned when a completed run record does not
	// exist in the underlying store.
	ErrRecordNotFound = fmt.Errorf("run record not found")
)
