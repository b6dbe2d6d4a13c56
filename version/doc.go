// Package version reports build metadata for dayzip.
//
// Values come from -ldflags when the release build sets them:
//
//	-ldflags "-X github.com/dendrascience/dayzip/version.Version=v1.0.0 -X github.com/dendrascience/dayzip/version.Commit=abc123"
//
// Otherwise the module version and VCS settings recorded by the go toolchain
// (debug.ReadBuildInfo) are used, with development defaults as the last resort.
package version
