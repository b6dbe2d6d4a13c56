package cmd

import (
	"fmt"
	"os"

	"github.com/dendrascience/dayzip/dayzip"
	"github.com/dendrascience/dayzip/util"
	"github.com/spf13/cobra"
)

// NewCountCmd creates the count subcommand, which reports how many files a
// directory tree or a zip archive holds.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count PATH...",
		Short: "Count files in directory trees or zip archives",
		Long: `Count the regular files below each directory, or the non-directory
members of each .zip archive. Handy for checking that a run kept every file:
the counts of the input archives should add up to the counts of the output
archives when no member names collide.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args)
		},
	}
	return cmd
}

func runCount(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()
	total := 0
	for _, path := range paths {
		count, err := countPath(path)
		if err != nil {
			return err
		}
		total += count
		fmt.Fprintf(out, "%s\t%d\n", path, count)
	}
	if len(paths) > 1 {
		fmt.Fprintf(out, "Total files: %d\n", total)
	}
	return nil
}

func countPath(path string) (int, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("%w: %s", dayzip.ErrPathNotFound, path)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", dayzip.ErrFilesystem, err)
	}
	if info.IsDir() {
		count, err := util.CountSubfile(path)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", dayzip.ErrFilesystem, err)
		}
		return count, nil
	}
	count, err := util.CountFilesInZip(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", dayzip.ErrDecode, path, err)
	}
	return count, nil
}
