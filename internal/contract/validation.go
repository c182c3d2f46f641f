// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for a single
	// collected source file.
	DefaultSoftLimitBytes = 8 << 20 // 8 MiB

	// PathMaxBytes is the maximum length for a collected file's
	// repo-relative path.
	PathMaxBytes = 4096
)

// SoftLimitBytes returns the effective soft limit for a single source
// file's size. Controlled via env CLONEHUNTER_SOFT_LIMIT_BYTES; falls
// back to DefaultSoftLimitBytes. Files over this limit are skipped by
// the collector rather than read into memory, since a generated or
// vendored file that size is never going to be a meaningful clone
// candidate and would otherwise dominate extraction time.
func SoftLimitBytes() int {
	if v := os.Getenv("CLONEHUNTER_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

// ValidateSourceFile checks whether a candidate source file is small
// enough to collect, given its size in bytes and repo-relative path.
func ValidateSourceFile(path string, sizeBytes int64) *ValidationResult {
	if len(path) > PathMaxBytes {
		return &ValidationResult{OK: false, Message: "path exceeds max length"}
	}
	if limit := int64(SoftLimitBytes()); sizeBytes > limit {
		return &ValidationResult{
			OK:      false,
			Message: fmt.Sprintf("file size %d exceeds soft limit %d", sizeBytes, limit),
		}
	}
	return &ValidationResult{OK: true}
}
