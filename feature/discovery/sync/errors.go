package sync

import "fmt"

// MappingError marks one asset that failed normalization. It carries the
// asset's natural key so the run summary points at the offending record.
// Mapping errors never abort a page; the asset is excluded and processing
// continues.
type MappingError struct {
	Key string
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("failed to map asset %s: %v", e.Key, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
