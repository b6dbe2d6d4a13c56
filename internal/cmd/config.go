package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dendrascience/dayzip/dayzip"
	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to flag names to form environment variable names,
// e.g. DAYZIP_DATE_FORMAT.
const EnvPrefix = "DAYZIP"

// settings mirrors the root command flags. Keys match the flag names.
type settings struct {
	Input            string `mapstructure:"input"`
	Output           string `mapstructure:"output"`
	Unzip            string `mapstructure:"unzip"`
	Sort             string `mapstructure:"sort"`
	Template         string `mapstructure:"template"`
	Prefix           string `mapstructure:"prefix"`
	DateFormat       string `mapstructure:"date-format"`
	LogLevel         string `mapstructure:"log-level"`
	Workers          int    `mapstructure:"workers"`
	Recursive        bool   `mapstructure:"recursive"`
	NoClobber        bool   `mapstructure:"no-clobber"`
	CompressionLevel int    `mapstructure:"compression-level"`
	Report           string `mapstructure:"report"`
	DryRun           bool   `mapstructure:"dry-run"`
}

// loadSettings resolves every flag from, in order of precedence, the command
// line, DAYZIP_* environment variables (after loading .env), the --config
// file, and the flag defaults.
func loadSettings(cmd *cobra.Command) (settings, error) {
	var s settings
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s, fmt.Errorf("%w: loading .env: %w", dayzip.ErrConfiguration, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return s, fmt.Errorf("%w: binding flags: %w", dayzip.ErrConfiguration, err)
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return s, fmt.Errorf("%w: reading config %s: %w", dayzip.ErrConfiguration, path, err)
		}
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("%w: decoding settings: %w", dayzip.ErrConfiguration, err)
	}
	return s, nil
}

// template returns the archive name template. An explicit template wins
// over a prefix.
func (s settings) template() string {
	if s.Template != "" {
		return s.Template
	}
	if s.Prefix != "" {
		return dayzip.TemplateFromPrefix(s.Prefix)
	}
	return dayzip.DefaultTemplate
}

func (s settings) pipelineConfig() dayzip.Config {
	return dayzip.Config{
		InputDir:         s.Input,
		OutputDir:        s.Output,
		UnzipDir:         s.Unzip,
		SortDir:          s.Sort,
		Template:         s.template(),
		DateFormat:       s.DateFormat,
		Workers:          s.Workers,
		Recursive:        s.Recursive,
		NoClobber:        s.NoClobber,
		CompressionLevel: s.CompressionLevel,
		ReportPath:       s.Report,
	}
}

func (s settings) loggerConfig() logger.Config {
	return logger.Config{Level: s.LogLevel}
}
