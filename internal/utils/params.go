// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned by ParseID for values that are not positive
// integers.
var ErrInvalidID = errors.New("id must be a positive integer")

// AtoiDefault converts a string to an int using strconv.Atoi. If the
// string is empty or cannot be parsed, it returns the provided default.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParseID parses a route or body identifier into a positive uint.
// Zero, negative, and non-numeric values yield ErrInvalidID.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}
