package storage

import (
	"fmt"
	"strings"
)

// CopyPolicy decides what a batch copy does after one pair fails.
type CopyPolicy string

const (
	// CopyAbortOnError copies pairs in order and stops at the first failure;
	// later pairs are never attempted.
	CopyAbortOnError CopyPolicy = "abort"
	// CopyContinueOnError attempts every pair and reports all failures together.
	CopyContinueOnError CopyPolicy = "continue"
)

// ParseCopyPolicy parses "abort" or "continue". An empty string selects CopyAbortOnError.
func ParseCopyPolicy(s string) (CopyPolicy, error) {
	switch CopyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CopyAbortOnError:
		return CopyAbortOnError, nil
	case CopyContinueOnError:
		return CopyContinueOnError, nil
	default:
		return "", fmt.Errorf("unknown copy policy %q", s)
	}
}
