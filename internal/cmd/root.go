package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/dayzip/dayzip"
	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/dendrascience/dayzip/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the dayzip command. Run without a subcommand it
// performs a full reorganization of --input into --output.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dayzip",
		Short: "dayzip - regroup a directory of zip archives into one archive per day",
		Long: `dayzip extracts every .zip in the input directory, restores the stored
modification time of each file, sorts the files into one folder per calendar
day and writes one archive per day to the output directory.

Archives are named from a template; {date} is replaced with the day rendered
by --date-format (strftime) and {count} with the number of files, e.g.
archive_2021-06-15_[2].zip.

Every flag can also be set with a DAYZIP_<FLAG> environment variable
(dashes become underscores), a .env file or a --config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				version.PrintVersion(cmd.OutOrStdout(), "dayzip")
				return nil
			}
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runReorganize(cmd, s)
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("input", "i", "", "Directory containing the source .zip archives (required)")
	flags.StringP("output", "o", "", "Directory receiving one archive per day (required)")
	flags.StringP("unzip", "u", "", "Parent of the per-run extraction directory (default: system temp dir)")
	flags.StringP("sort", "s", "", "Parent of the per-run day folders (default: system temp dir)")
	flags.StringP("template", "t", "", "Archive name template with {date} and optional {count} (default "+dayzip.DefaultTemplate+")")
	flags.StringP("prefix", "p", "", "Replace the archive_ prefix of the default template")
	flags.StringP("date-format", "f", dayzip.DefaultDateFormat, "strftime format used for {date}")
	flags.StringP("log-level", "l", "INFO", "Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	flags.IntP("workers", "w", 1, "Number of archives decoded concurrently")
	flags.Bool("recursive", false, "Also sort files found in subdirectories of the extracted tree")
	flags.Bool("no-clobber", false, "Rename instead of replacing a same-named file while sorting")
	flags.Int("compression-level", dayzip.DefaultCompressionLevel, "Deflate level from -1 (library default) to 9")
	flags.String("report", "", "Write per-archive metadata to this .json or .yaml file")
	flags.Bool("dry-run", false, "Print the archives that would be written and exit")
	flags.String("config", "", "Read settings from a YAML, JSON or TOML file")
	flags.BoolP("version", "v", false, "Show version information and exit")

	groupUtilities := "utilities"
	rootCmd.AddGroup(&cobra.Group{ID: groupUtilities, Title: "Utility Commands"})
	verifyCmd := NewVerifyCmd()
	countCmd := NewCountCmd()
	verifyCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)

	return rootCmd
}

func runReorganize(cmd *cobra.Command, s settings) error {
	if s.Input == "" || s.Output == "" {
		return fmt.Errorf("%w: both --input and --output are required", dayzip.ErrConfiguration)
	}
	log, err := logger.New(s.loggerConfig())
	if err != nil {
		return fmt.Errorf("%w: %w", dayzip.ErrConfiguration, err)
	}
	defer func() { _ = log.Sync() }()

	p, err := dayzip.New(s.pipelineConfig(), log)
	if err != nil {
		return err
	}
	if s.DryRun {
		planned, err := p.Plan(cmd.Context())
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), planned)
		return nil
	}

	log.Info("starting dayzip", logger.String("version", version.GetFullVersion()))
	summary, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}
	if len(summary.SkippedDirs) > 0 {
		log.Warn("some extracted folders were not archived; rerun with --recursive to include them",
			logger.Strings("dirs", summary.SkippedDirs))
	}
	return nil
}

func printPlan(w io.Writer, planned []dayzip.PlannedArchive) {
	if len(planned) == 0 {
		fmt.Fprintln(w, "No archives would be written.")
		return
	}
	for _, a := range planned {
		fmt.Fprintf(w, "%s\t%d files\n", a.Name, a.Count)
	}
}
