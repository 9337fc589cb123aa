// Package repository implements data access over database/sql. Sentinel
// errors defined per repository let handlers distinguish failure
// scenarios without string matching: not-found sentinels map to 404
// responses while duplicate-key sentinels map to field-level conflicts.
package repository

import "strings"

// isDuplicate reports whether err is a unique-constraint violation.
// MySQL reports error 1062; the sqlite driver used in tests reports a
// "UNIQUE constraint failed" message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
