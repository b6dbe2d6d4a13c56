// Package util provides the low-level building blocks used by the dayzip stages.
//
// Key Components:
//
// Zip Archives:
//   - Recursive collection of bucket files with slash-separated relative names
//   - Deflate-compressed zip writing through github.com/klauspost/compress/flate
//   - Member counting and lookups for existing archives
//
// Member Tables:
//   - MemberTable and MemberEntry types describing the contents of a written archive
//   - Timestamp tracking for oldest/newest members
//
// Metadata:
//   - Per-archive metadata with file counts, sizes, timestamps and SHA-256 checksums
//   - JSON or YAML persistence chosen by file extension
//
// File Moves:
//   - Rename-based moves with an overwrite or no-clobber collision policy
//
// Nothing in this package logs; callers decide what is worth reporting.
package util
