// Package main provides the dayzip command-line interface.
//
// dayzip takes a directory of zip archives whose members span many days,
// extracts them with their stored modification times, and writes one
// archive per calendar day:
//
//	dayzip -i ./incoming -o ./daily
//
// Subcommands:
//   - verify: check the archives of an output directory against a run report
//   - count: count files in directory trees or zip archives
package main
