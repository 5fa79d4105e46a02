package errors

import (
	"strings"
	"unicode"
)

// MaxLabelLength bounds the length of a single operation label.
const MaxLabelLength = 256

// ValidateLabel validates an operation label.
//
// Labels are concatenated when nodes merge and are joined with " -> " and ";"
// in snapshots, so the rules are:
//   - No empty labels
//   - No control characters
//   - No ';' and no "->" sequence
//   - Maximum length of MaxLabelLength characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}

	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label %q contains control characters", label)
		}
	}

	for _, pattern := range []string{";", "->"} {
		if strings.Contains(label, pattern) {
			return New(ErrCodeInvalidLabel, "label %q contains reserved sequence %q", label, pattern)
		}
	}

	return nil
}

// ValidateInput checks a construction request before a graph is built:
// every group must index an existing row, and every selected row must be
// non-empty and consist of valid labels. Rows that are not selected are not
// inspected.
func ValidateInput(groups []int, operations [][]string) error {
	if len(operations) == 0 {
		return New(ErrCodeInvalidInput, "no operation sequences given")
	}
	if len(groups) == 0 {
		return New(ErrCodeInvalidInput, "no groups selected")
	}

	for _, g := range groups {
		if g < 0 || g >= len(operations) {
			return New(ErrCodeInvalidGroup, "group %d out of range (have %d sequences)", g, len(operations))
		}
		row := operations[g]
		if len(row) == 0 {
			return New(ErrCodeEmptySequence, "sequence %d is empty", g)
		}
		for i, label := range row {
			if err := ValidateLabel(label); err != nil {
				return New(ErrCodeInvalidLabel, "sequence %d, position %d: %s", g, i, UserMessage(err))
			}
		}
	}

	return nil
}
