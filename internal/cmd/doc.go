// Package cmd provides the command-line interface for dayzip.
//
// The root command runs a reorganization. Its flags are resolved through
// viper, so each can also come from a DAYZIP_* environment variable, a .env
// file or a config file. Utility subcommands:
//   - verify: check a previous run's output against its report
//   - count: count files in directory trees or zip archives
//
// Commands are built with Cobra and styled by Fang in main.
package cmd
