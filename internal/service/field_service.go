// internal/service/field_service.go
package service

import (
	"strings"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// NotProvided is the literal fallback for a declared placeholder whose row
// value is absent, empty or null-like.
const NotProvided = "[Not Provided]"

func nullLike(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "none":
		return true
	}
	return false
}

// ResolveFields builds the merged field map for one recipient row: every
// declared placeholder resolved from the row (falling back to NotProvided),
// plus the statically configured extra fields. A declared placeholder is
// never clobbered by an extra field of the same name; the dataset value wins.
func ResolveFields(row model.Record, placeholders []string, extra map[string]string) map[string]string {
	fields := make(map[string]string, len(placeholders)+len(extra))
	for _, name := range placeholders {
		v := row[name]
		if nullLike(v) {
			v = NotProvided
		}
		fields[name] = v
	}
	for k, v := range extra {
		if _, declared := fields[k]; declared {
			continue
		}
		fields[k] = v
	}
	return fields
}

// ResolveAddress returns the recipient address from the row, or "" when the
// email cell is missing or null-like.
func ResolveAddress(row model.Record, emailColumn string) string {
	v := row[emailColumn]
	if nullLike(v) {
		return ""
	}
	return strings.TrimSpace(v)
}
