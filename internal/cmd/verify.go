package cmd

import (
	"fmt"

	"github.com/dendrascience/dayzip/dayzip"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify subcommand, which checks the archives in
// an output directory for corruption and, given a report, for consistency
// with the run that wrote them.
func NewVerifyCmd() *cobra.Command {
	var (
		outputPath string
		reportPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check written archives for corruption",
		Long: `Check every .zip in an output directory.

Each member is read in full so its CRC is checked. With --report, every
archive listed in the report must be present and match the recorded member
count and SHA-256 checksum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, outputPath, reportPath, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Directory holding the archives to check (required)")
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Report written by a previous run")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print details of the report being checked against")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runVerify(cmd *cobra.Command, outputPath, reportPath string, verbose bool) error {
	out := cmd.OutOrStdout()
	var report *dayzip.Report
	if reportPath != "" {
		r, err := dayzip.ReadReport(reportPath)
		if err != nil {
			return err
		}
		report = &r
		if verbose {
			fmt.Fprintf(out, "Using report %s (run %s, %d archives)\n", reportPath, r.RunID, len(r.Archives))
		}
	}

	checked, problems, err := dayzip.VerifyOutput(outputPath, report)
	if err != nil {
		return err
	}
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	fmt.Fprintf(out, "\nVerification complete:\n")
	fmt.Fprintf(out, "  Archives checked: %d\n", checked)
	fmt.Fprintf(out, "  Total problems: %d\n", len(problems))

	if len(problems) > 0 {
		return fmt.Errorf("%w: %d problems in %s", dayzip.ErrDecode, len(problems), outputPath)
	}
	return nil
}
