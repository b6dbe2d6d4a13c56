// Package util provides utility functions for dayzip.
package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Archive errors
	ErrNotZipExtension = errors.New("file path extension is not '.zip'")

	// Move errors
	ErrNoFreeName = errors.New("no free file name for renamed move")
)
