// Package record loads one day's browsing export and repairs the key and
// value whitespace damage some export versions produce before validating
// the structure.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"daybrief/internal/core"
	"daybrief/internal/logger"
)

// BackupSuffix is appended to the input path when the original file is
// preserved before an in-place repair.
const BackupSuffix = ".bak"

// requiredKeys must be present at the top level of every record.
var requiredKeys = []string{"date", "pages"}

// Load reads the browsing record at path, repairing damaged keys and values
// in place when needed. When a repair occurs the original file is first
// copied to path+BackupSuffix, then the corrected JSON overwrites the
// original location. The returned bool reports whether a repair happened.
func Load(path string) (*core.BrowsingRecord, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, &NotFoundError{Path: path}
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, &FormatError{Path: path, Err: err}
	}

	repaired := false
	if NeedsRepair(data) {
		logger.Warn("Malformed record detected, repairing keys and values", "path", path)

		// Snapshot the original before anything overwrites it. Backup and
		// rewrite are one operation from the caller's point of view: if the
		// backup cannot be written, the repair does not happen either.
		backupPath := path + BackupSuffix
		if err := os.WriteFile(backupPath, raw, 0644); err != nil {
			return nil, false, fmt.Errorf("failed to back up original record to %s: %w", backupPath, err)
		}

		data = Normalize(data)
		fixed, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, false, fmt.Errorf("failed to encode repaired record: %w", err)
		}
		if err := os.WriteFile(path, fixed, 0644); err != nil {
			return nil, false, fmt.Errorf("failed to write repaired record to %s: %w", path, err)
		}

		logger.Info("Repaired record saved", "path", path, "backup", backupPath)
		repaired = true
	}

	if err := validate(data); err != nil {
		return nil, repaired, err
	}

	rec, err := decode(data)
	if err != nil {
		return nil, repaired, &FormatError{Path: path, Err: err}
	}
	return rec, repaired, nil
}

// NeedsRepair reports whether any mapping key in the structure carries
// leading or trailing whitespace.
func NeedsRepair(v any) bool {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if k != strings.TrimSpace(k) {
				return true
			}
			if NeedsRepair(child) {
				return true
			}
		}
	case []any:
		for _, child := range val {
			if NeedsRepair(child) {
				return true
			}
		}
	}
	return false
}

// Normalize recursively rebuilds the structure with every mapping key
// trimmed, dropping keys that become empty, and every string value trimmed.
// Non-string primitives pass through untouched.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			out[k] = Normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Normalize(child)
		}
		return out
	case string:
		return strings.TrimSpace(val)
	default:
		return v
	}
}

// validate checks the required top-level keys after any repair.
func validate(v any) error {
	top, ok := v.(map[string]any)
	if !ok {
		return &MalformedRecordError{Missing: append([]string(nil), requiredKeys...)}
	}

	var missing, present []string
	for k := range top {
		present = append(present, k)
	}
	for _, k := range requiredKeys {
		if _, ok := top[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &MalformedRecordError{Missing: missing, Present: present}
	}
	return nil
}

// decode converts the normalized structure into the typed record. Unknown
// keys are ignored.
func decode(v any) (*core.BrowsingRecord, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec core.BrowsingRecord
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
