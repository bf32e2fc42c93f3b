package record

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError indicates the input record file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("browsing record not found: %s", e.Path)
}

// FormatError indicates the input could not be parsed as JSON.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MalformedRecordError indicates the record is missing required top-level
// keys even after repair. The message enumerates missing and present keys
// so a severely damaged export is diagnosable from the failure alone.
type MalformedRecordError struct {
	Missing []string
	Present []string
}

func (e *MalformedRecordError) Error() string {
	missing := append([]string(nil), e.Missing...)
	present := append([]string(nil), e.Present...)
	sort.Strings(missing)
	sort.Strings(present)
	return fmt.Sprintf("record missing required keys: %s (found keys: %s)",
		strings.Join(missing, ", "), strings.Join(present, ", "))
}
