// Package dayzip regroups the contents of a directory of zip archives into
// one archive per calendar day.
//
// A run has three stages that never overlap:
//
//  1. Extract unpacks every *.zip of the input directory into a scratch
//     directory and restores each member's stored modification time.
//  2. Bucket moves the extracted files into MM_DD_YYYY folders chosen from
//     their modification time in the local time zone.
//  3. Archive writes one zip per non-empty folder, named from a template
//     such as "archive_{date}_[{count}].zip".
//
// Pipeline wires the stages together, owns the scratch directories and can
// write a per-archive report. Input archives are never modified.
package dayzip
